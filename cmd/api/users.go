package main

import (
	"net/http"

	"github.com/go-chi/chi"
)

// listUsersHandler godoc
//
//	@Summary	List users
//	@Tags		users
//	@Produce	json
//	@Success	200	{array}	domain.User
//	@Security	ApiKeyAuth
//	@Router		/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.users.Load(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, users); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteUserHandler godoc
//
//	@Summary		Delete user
//	@Description	Admin accounts cannot be deleted
//	@Tags			users
//	@Param			user_id	path	string	true	"User ID"
//	@Success		204
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/users/{user_id} [delete]
func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.users.Delete(r.Context(), chi.URLParam(r, "user_id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
