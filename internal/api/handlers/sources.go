package handlers

import (
	"net/http"
	"time"

	"github.com/damiad/net-worth-tracker/internal/api/request"
	"github.com/damiad/net-worth-tracker/internal/api/response"
	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/service"
	"github.com/damiad/net-worth-tracker/internal/validation"
	"github.com/go-chi/chi/v5"
)

// SourceHandler handles HTTP requests for source endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the sourceService and interestService.
type SourceHandler struct {
	sourceService   *service.SourceService
	interestService *service.InterestService
}

// NewSourceHandler creates a new SourceHandler with the provided service dependencies.
func NewSourceHandler(sourceService *service.SourceService, interestService *service.InterestService) *SourceHandler {
	return &SourceHandler{
		sourceService:   sourceService,
		interestService: interestService,
	}
}

// SaveSourceResponse is a saved source. SnapshotError is set when the change
// was stored but the day's snapshot could not be recorded.
type SaveSourceResponse struct {
	SourceResponse
	SnapshotError string `json:"snapshotError,omitempty"`
}

// DeleteSourceResponse acknowledges a deletion.
type DeleteSourceResponse struct {
	ID            string `json:"id"`
	SnapshotError string `json:"snapshotError,omitempty"`
}

// Sources handles GET requests to list a user's sources with their records.
//
// Endpoint: GET /api/user/{userId}/sources
// Response: 200 OK with array of SourceResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *SourceHandler) Sources(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	sources, err := h.sourceService.ListSources(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSources.Error(), err.Error())
		return
	}

	resp := make([]SourceResponse, len(sources))
	for i, s := range sources {
		resp[i] = newSourceResponse(s)
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// GetSource handles GET requests to retrieve a single source.
//
// Endpoint: GET /api/user/{userId}/sources/{uuid}
// Response: 200 OK with SourceResponse
// Error: 400 Bad Request if an ID is invalid (validated by middleware)
// Error: 404 Not Found if the source does not exist for the user
// Error: 500 Internal Server Error if retrieval fails
func (h *SourceHandler) GetSource(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	sourceID := chi.URLParam(r, "uuid")

	source, err := h.sourceService.GetSource(r.Context(), userID, sourceID)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSource)
		return
	}

	response.RespondJSON(w, http.StatusOK, newSourceResponse(source))
}

// CreateSource handles POST requests to create a source.
//
// Endpoint: POST /api/user/{userId}/sources
// Request Body: SaveSourceRequest
// Response: 201 Created with SaveSourceResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 500 Internal Server Error if the save fails
func (h *SourceHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated)
}

// UpdateSource handles PUT requests that replace a source and reconcile its records.
//
// Endpoint: PUT /api/user/{userId}/sources/{uuid}
// Request Body: SaveSourceRequest
// Response: 200 OK with SaveSourceResponse
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 404 Not Found if the source does not exist for the user
// Error: 500 Internal Server Error if the save fails
func (h *SourceHandler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "uuid"), http.StatusOK)
}

func (h *SourceHandler) save(w http.ResponseWriter, r *http.Request, sourceID string, status int) {
	userID := chi.URLParam(r, "userId")

	req, err := parseJSON[request.SaveSourceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSaveSource(req); err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToSaveSource)
		return
	}

	saved, err := h.sourceService.SaveSource(r.Context(), userID, sourceID, req)
	snapshotErr, err := snapshotOutcome(err)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToSaveSource)
		return
	}

	response.RespondJSON(w, status, SaveSourceResponse{
		SourceResponse: newSourceResponse(saved),
		SnapshotError:  snapshotErr,
	})
}

// DeleteSource handles DELETE requests to remove a source and its records.
//
// Endpoint: DELETE /api/user/{userId}/sources/{uuid}
// Response: 200 OK with DeleteSourceResponse
// Error: 404 Not Found if the source does not exist for the user
// Error: 500 Internal Server Error if the delete fails
func (h *SourceHandler) DeleteSource(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	sourceID := chi.URLParam(r, "uuid")

	err := h.sourceService.DeleteSource(r.Context(), userID, sourceID)
	snapshotErr, err := snapshotOutcome(err)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToDeleteSource)
		return
	}

	response.RespondJSON(w, http.StatusOK, DeleteSourceResponse{ID: sourceID, SnapshotError: snapshotErr})
}

// AccrueResponse reports an interest update. Applied is false for items
// without an interest rate.
type AccrueResponse struct {
	Record        *SubRecordResponse    `json:"record,omitempty"`
	Debt          *PropertyDebtResponse `json:"debt,omitempty"`
	Applied       bool                  `json:"applied"`
	SnapshotError string                `json:"snapshotError,omitempty"`
}

// AccrueRecord handles POST requests that fold elapsed interest into a loan or debt.
//
// Endpoint: POST /api/user/{userId}/records/{uuid}/accrue
// Response: 200 OK with AccrueResponse
// Error: 400 Bad Request if the record is an account
// Error: 404 Not Found if the record does not exist for the user
// Error: 409 Conflict if interest was already updated today
// Error: 500 Internal Server Error if the update fails
func (h *SourceHandler) AccrueRecord(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	recordID := chi.URLParam(r, "uuid")

	rec, applied, err := h.interestService.AccrueSubRecord(r.Context(), userID, recordID, time.Now())
	snapshotErr, err := snapshotOutcome(err)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToAccrueInterest)
		return
	}

	record := newSubRecordResponse(rec)
	response.RespondJSON(w, http.StatusOK, AccrueResponse{
		Record:        &record,
		Applied:       applied,
		SnapshotError: snapshotErr,
	})
}

// AccruePropertyDebt handles POST requests that fold elapsed interest into a
// property's inline debt.
//
// Endpoint: POST /api/user/{userId}/sources/{uuid}/debts/{debtId}/accrue
// Response: 200 OK with AccrueResponse
// Error: 400 Bad Request if the source is not a property
// Error: 404 Not Found if the source or debt does not exist for the user
// Error: 409 Conflict if interest was already updated today
// Error: 500 Internal Server Error if the update fails
func (h *SourceHandler) AccruePropertyDebt(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	sourceID := chi.URLParam(r, "uuid")
	debtID := chi.URLParam(r, "debtId")

	d, applied, err := h.interestService.AccruePropertyDebt(r.Context(), userID, sourceID, debtID, time.Now())
	snapshotErr, err := snapshotOutcome(err)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToAccrueInterest)
		return
	}

	debt := newPropertyDebtResponse(d)
	response.RespondJSON(w, http.StatusOK, AccrueResponse{
		Debt:          &debt,
		Applied:       applied,
		SnapshotError: snapshotErr,
	})
}
