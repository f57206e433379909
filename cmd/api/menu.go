package main

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/service"
)

type MenuItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	Category    domain.Category `json:"category"`
	Image       string          `json:"image"`
}

func (req MenuItemRequest) item() domain.MenuItem {
	return domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
	}
}

// listMenuHandler godoc
//
//	@Summary		List menu
//	@Description	Returns the menu in display order, optionally narrowed
//	@Tags			menu
//	@Produce		json
//	@Param			category	query		string	false	"Category"	Enums(main, appetizer, grilled, dessert, drink)
//	@Param			q			query		string	false	"Text search on name and description"
//	@Success		200			{array}		domain.MenuItem
//	@Failure		500			{object}	map[string]string
//	@Router			/menu [get]
func (app *application) listMenuHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.catalog.Load(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	category := domain.Category(r.URL.Query().Get("category"))
	items = service.FilterMenu(items, category, r.URL.Query().Get("q"))

	if err := app.jsonResponse(w, http.StatusOK, items); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMenuItemHandler godoc
//
//	@Summary		Get menu item
//	@Tags			menu
//	@Produce		json
//	@Param			item_id	path		string	true	"Menu item ID"
//	@Success		200		{object}	domain.MenuItem
//	@Failure		404		{object}	map[string]string
//	@Router			/menu/{item_id} [get]
func (app *application) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	item, err := app.catalog.Get(r.Context(), chi.URLParam(r, "item_id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createMenuItemHandler godoc
//
//	@Summary		Create menu item
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MenuItemRequest	true	"Menu item"
//	@Success		201		{object}	domain.MenuItem
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu [post]
func (app *application) createMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.catalog.Create(r.Context(), req.item())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateMenuItemHandler godoc
//
//	@Summary		Update menu item
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			item_id	path		string			true	"Menu item ID"
//	@Param			request	body		MenuItemRequest	true	"Menu item"
//	@Success		200		{object}	domain.MenuItem
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/{item_id} [put]
func (app *application) updateMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	var req MenuItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.catalog.Update(r.Context(), chi.URLParam(r, "item_id"), req.item())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteMenuItemHandler godoc
//
//	@Summary		Delete menu item
//	@Description	Past orders keep their own copy of the item
//	@Tags			menu
//	@Param			item_id	path	string	true	"Menu item ID"
//	@Success		204
//	@Failure		404	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu/{item_id} [delete]
func (app *application) deleteMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.Delete(r.Context(), chi.URLParam(r, "item_id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
