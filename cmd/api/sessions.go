package main

import (
	"errors"
	"net/http"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type CreateSessionRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type SessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// createSessionHandler godoc
//
//	@Summary		Create session
//	@Description	Issues a session token for a known account
//	@Tags			sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSessionRequest	true	"Account email"
//	@Success		201		{object}	SessionResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/sessions [post]
func (app *application) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	token, err := app.authenticator.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, SessionResponse{Token: token, User: *user}); err != nil {
		app.internalServerError(w, r, err)
	}
}
