package main

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type PayOrderRequest struct {
	Method     domain.PaymentMethod `json:"method" validate:"required"`
	CardNumber string               `json:"cardNumber"`
	CardHolder string               `json:"cardHolder"`
	Expiry     string               `json:"expiry"`
	CVC        string               `json:"cvc"`
	Phone      string               `json:"phone"`
}

// payOrderHandler godoc
//
//	@Summary		Pay order
//	@Description	Validates the payment fields for the method and completes the order
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			order_id	path		string			true	"Order ID"
//	@Param			request		body		PayOrderRequest	true	"Payment method and fields"
//	@Success		200			{object}	domain.Order
//	@Failure		400			{object}	map[string]string
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Router			/orders/{order_id}/pay [post]
func (app *application) payOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req PayOrderRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, ok := app.loadOrder(w, r)
	if !ok {
		return
	}

	paid, err := app.payments.Submit(r.Context(), order.ID, req.Method, domain.PaymentFields{
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		Expiry:     req.Expiry,
		CVC:        req.CVC,
		Phone:      req.Phone,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, paid); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createPaymentIntentHandler godoc
//
//	@Summary		Create payment intent
//	@Description	Opens a Stripe payment intent for the order total
//	@Tags			payments
//	@Produce		json
//	@Param			order_id	path		string	true	"Order ID"
//	@Success		201			{object}	domain.PaymentIntent
//	@Failure		404			{object}	map[string]string
//	@Failure		409			{object}	map[string]string
//	@Failure		502			{object}	map[string]string
//	@Router			/orders/{order_id}/payment-intent [post]
func (app *application) createPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	order, ok := app.loadOrder(w, r)
	if !ok {
		return
	}

	intent, err := app.payments.CreateIntent(r.Context(), order.ID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}

// cancelPaymentIntentHandler godoc
//
//	@Summary	Cancel payment intent
//	@Tags		payments
//	@Produce	json
//	@Param		intent_id	path		string	true	"Payment intent ID"
//	@Success	200			{object}	domain.PaymentIntent
//	@Failure	502			{object}	map[string]string
//	@Router		/payment-intents/{intent_id} [delete]
func (app *application) cancelPaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intent_id")
	if intentID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	intent, err := app.payments.CancelIntent(r.Context(), intentID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, intent); err != nil {
		app.internalServerError(w, r, err)
	}
}
