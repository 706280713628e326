package handlers

import (
	"net/http"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/damiad/net-worth-tracker/internal/api/response"
	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/go-chi/chi/v5"
)

// NetWorthHandler serves the read side: the overview and the snapshot history.
type NetWorthHandler struct {
	netWorthService *service.NetWorthService
}

// NewNetWorthHandler creates a new NetWorthHandler.
func NewNetWorthHandler(netWorthService *service.NetWorthService) *NetWorthHandler {
	return &NetWorthHandler{
		netWorthService: netWorthService,
	}
}

// Overview handles GET requests for a user's current net worth.
// The optional currency query parameter selects the display currency;
// currencies without a rate fall back to the base currency.
//
// Endpoint: GET /api/user/{userId}/overview?currency=USD
// Response: 200 OK with OverviewResponse
// Error: 400 Bad Request if the currency parameter is malformed
// Error: 500 Internal Server Error if the overview cannot be computed
func (h *NetWorthHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	currency, err := request.ParseCurrencyParam(r.URL.Query().Get("currency"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid currency parameter", err.Error())
		return
	}

	overview, err := h.netWorthService.Overview(r.Context(), userID, currency)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToGetOverview)
		return
	}

	response.RespondJSON(w, http.StatusOK, newOverviewResponse(overview))
}

// Snapshots handles GET requests for a user's net-worth history.
//
// Endpoint: GET /api/user/{userId}/snapshots?currency=EUR
// Response: 200 OK with SnapshotHistoryResponse, oldest first
// Error: 400 Bad Request if the currency parameter is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *NetWorthHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	currency, err := request.ParseCurrencyParam(r.URL.Query().Get("currency"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid currency parameter", err.Error())
		return
	}

	history, err := h.netWorthService.History(r.Context(), userID, currency)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots)
		return
	}

	response.RespondJSON(w, http.StatusOK, newSnapshotHistoryResponse(history))
}
