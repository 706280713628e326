package handlers

import (
	"net/http"
	"strings"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/damiad/net-worth-tracker/internal/api/response"
	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/damiad/net-worth-tracker/internal/validation"
	"github.com/go-chi/chi/v5"
)

// RateHandler handles HTTP requests for the exchange rate table.
type RateHandler struct {
	rateService *service.RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateService *service.RateService) *RateHandler {
	return &RateHandler{
		rateService: rateService,
	}
}

// Rates handles GET requests for the stored exchange rates.
//
// Endpoint: GET /api/rates
// Response: 200 OK with array of ExchangeRateResponse, ordered by currency
// Error: 500 Internal Server Error if retrieval fails
func (h *RateHandler) Rates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateService.ListRates(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRates.Error(), err.Error())
		return
	}

	resp := make([]ExchangeRateResponse, len(rates))
	for i, rate := range rates {
		resp[i] = newExchangeRateResponse(rate)
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// SetRate handles PUT requests that set how many base-currency units one
// unit of a currency is worth.
//
// Endpoint: PUT /api/rates/{currency}
// Request Body: SetExchangeRateRequest
// Response: 200 OK with ExchangeRateResponse
// Error: 400 Bad Request if the currency or the rate is invalid
// Error: 500 Internal Server Error if the update fails
func (h *RateHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(chi.URLParam(r, "currency"))

	req, err := parseJSON[request.SetExchangeRateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetExchangeRate(currency, req); err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToUpdateRate)
		return
	}

	rate, err := h.rateService.SetRate(r.Context(), currency, req.Rate)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToUpdateRate)
		return
	}

	response.RespondJSON(w, http.StatusOK, newExchangeRateResponse(rate))
}
