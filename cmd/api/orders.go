package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/service"
)

const defaultAuditLimit = 50

type CheckoutRequest struct {
	UserName    string `json:"userName" validate:"omitempty,min=2,max=100"`
	UserEmail   string `json:"userEmail" validate:"omitempty,email"`
	UserPhone   string `json:"userPhone" validate:"omitempty,numeric,min=10,max=11"`
	TableNumber string `json:"tableNumber" validate:"omitempty,max=10"`
}

type ListOrdersQuery struct {
	Query  string `validate:"max=100"`
	Status string `validate:"omitempty,oneof=pending processing completed cancelled"`
	Sort   string `validate:"omitempty,oneof=createdAt total status"`
	Dir    string `validate:"omitempty,oneof=asc desc"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// checkoutHandler godoc
//
//	@Summary		Checkout
//	@Description	Turns the caller's cart into a pending order. Contact details default to the session user's profile.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CheckoutRequest	true	"Contact details"
//	@Success		201		{object}	domain.Order
//	@Failure		400		{object}	map[string]string
//	@Router			/orders [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	in := service.CheckoutInput{
		UserID:      sessionUserID(r),
		UserName:    req.UserName,
		UserEmail:   req.UserEmail,
		UserPhone:   req.UserPhone,
		TableNumber: req.TableNumber,
	}
	if user := getUserFromContext(r); user != nil {
		in.UserName = fallback(in.UserName, user.Name)
		in.UserEmail = fallback(in.UserEmail, user.Email)
		in.UserPhone = fallback(in.UserPhone, user.Phone)
	}
	if in.UserName == "" {
		app.errorResponse(w, r, domain.NewValidationError("userName", "Name is required"))
		return
	}

	order, err := app.orders.Checkout(r.Context(), in)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		List orders
//	@Description	Filters by text and status, then sorts stably
//	@Tags			orders
//	@Produce		json
//	@Param			q		query		string	false	"Matches id, name, email or phone"
//	@Param			status	query		string	false	"Status"	Enums(pending, processing, completed, cancelled)
//	@Param			sort	query		string	false	"Sort key"	Enums(createdAt, total, status)
//	@Param			dir		query		string	false	"Direction"	Enums(asc, desc)
//	@Success		200		{array}		domain.Order
//	@Failure		400		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := ListOrdersQuery{
		Query:  qs.Get("q"),
		Status: qs.Get("status"),
		Sort:   fallback(qs.Get("sort"), string(domain.SortByCreatedAt)),
		Dir:    fallback(qs.Get("dir"), string(domain.SortDesc)),
	}

	if err := Validate.Struct(q); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	orders, err := app.orders.FilterAndSort(
		r.Context(),
		domain.OrderFilter{Query: q.Query, Status: domain.OrderStatus(q.Status)},
		domain.OrderSortKey(q.Sort),
		domain.SortDirection(q.Dir),
	)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, orders); err != nil {
		app.internalServerError(w, r, err)
	}
}

// orderStatsHandler godoc
//
//	@Summary	Order statistics
//	@Tags		orders
//	@Produce	json
//	@Success	200	{object}	domain.OrderStats
//	@Security	ApiKeyAuth
//	@Router		/orders/stats [get]
func (app *application) orderStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.orders.Stats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

// lastOrderHandler godoc
//
//	@Summary	Last order
//	@Tags		orders
//	@Produce	json
//	@Success	200	{object}	domain.Order
//	@Failure	404	{object}	map[string]string
//	@Router		/orders/last [get]
func (app *application) lastOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := app.orders.Last(r.Context(), sessionUserID(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if !canSeeOrder(r, order) {
		app.notFoundError(w, r, domain.ErrNotFound)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderHandler godoc
//
//	@Summary	Get order
//	@Tags		orders
//	@Produce	json
//	@Param		order_id	path		string	true	"Order ID"
//	@Success	200			{object}	domain.Order
//	@Failure	404			{object}	map[string]string
//	@Router		/orders/{order_id} [get]
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, ok := app.loadOrder(w, r)
	if !ok {
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateOrderStatusHandler godoc
//
//	@Summary		Update order status
//	@Description	Allowed: pending to processing, completed or cancelled; processing to completed or cancelled
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			order_id	path		string						true	"Order ID"
//	@Param			request		body		UpdateOrderStatusRequest	true	"New status"
//	@Success		200			{object}	domain.Order
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/orders/{order_id}/status [patch]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderStatusRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.orders.UpdateStatus(r.Context(), chi.URLParam(r, "order_id"), req.Status, sessionUserID(r))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderAuditHandler godoc
//
//	@Summary	Order status history
//	@Tags		orders
//	@Produce	json
//	@Param		order_id	path		string	true	"Order ID"
//	@Param		limit		query		int		false	"Max entries"
//	@Success	200			{array}		domain.OrderStatusAudit
//	@Security	ApiKeyAuth
//	@Router		/orders/{order_id}/audit [get]
func (app *application) getOrderAuditHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			app.badRequestResponse(w, r, strconv.ErrSyntax)
			return
		}
		limit = n
	}

	audits, err := app.orders.GetOrderAudit(r.Context(), chi.URLParam(r, "order_id"), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, audits); err != nil {
		app.internalServerError(w, r, err)
	}
}

// loadOrder fetches the order named in the path if the caller may see it.
// Anything else is reported as not found.
func (app *application) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	order, err := app.orders.Get(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return nil, false
	}

	if !canSeeOrder(r, order) {
		app.notFoundError(w, r, domain.ErrNotFound)
		return nil, false
	}

	return order, true
}

// canSeeOrder lets admins see every order and everyone else only orders
// placed under their own session (guests: orders of their guest session).
func canSeeOrder(r *http.Request, order *domain.Order) bool {
	if user := getUserFromContext(r); user != nil && user.IsAdmin() {
		return true
	}
	return order.UserID == sessionUserID(r)
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
