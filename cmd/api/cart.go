package main

import (
	"net/http"

	"github.com/go-chi/chi"
)

type AddCartItemRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

// getCartHandler godoc
//
//	@Summary		Get cart
//	@Description	Cart of the session user, or the guest cart
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	domain.Cart
//	@Router			/cart [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := app.carts.Get(r.Context(), sessionUserID(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addCartItemHandler godoc
//
//	@Summary		Add to cart
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddCartItemRequest	true	"Menu item and quantity"
//	@Success		200		{object}	domain.Cart
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/cart/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cart, err := app.carts.AddItem(r.Context(), sessionUserID(r), req.MenuItemID, req.Quantity)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCartItemHandler godoc
//
//	@Summary		Set cart quantity
//	@Description	A quantity of 0 removes the line
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			item_id	path		string					true	"Menu item ID"
//	@Param			request	body		UpdateCartItemRequest	true	"Quantity"
//	@Success		200		{object}	domain.Cart
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Router			/cart/items/{item_id} [patch]
func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cart, err := app.carts.SetQuantity(r.Context(), sessionUserID(r), chi.URLParam(r, "item_id"), req.Quantity)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart); err != nil {
		app.internalServerError(w, r, err)
	}
}

// clearCartHandler godoc
//
//	@Summary	Clear cart
//	@Tags		cart
//	@Success	204
//	@Router		/cart [delete]
func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.carts.Clear(r.Context(), sessionUserID(r)); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
