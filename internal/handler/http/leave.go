package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openleave/lms-backend-go/internal/domain/leave"
	"github.com/openleave/lms-backend-go/internal/handler/http/middleware"
	"github.com/openleave/lms-backend-go/internal/handler/http/response"
	"github.com/prometheus/client_golang/prometheus"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	MyBalance(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	ledger leave.Ledger
}

func NewLeaveHandler(ledger leave.Ledger) LeaveHandler {
	return &LeaveHandlerImpl{ledger: ledger}
}

// Submit implements LeaveHandler.
func (h *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/leaves"))
	defer timer.ObserveDuration()

	username, err := middleware.Username(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Owner comes from the token, never from the body
	req.Username = username

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.ledger.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	leaveSubmissions.WithLabelValues("accepted").Inc()
	response.Created(w, "Leave request submitted successfully", record)
}

// ListMine implements LeaveHandler.
func (h *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.Username(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.ledger.ListByUser(r.Context(), username)
	if err != nil {
		slog.Error("ListMine service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// MyBalance implements LeaveHandler. The year-reset hook runs before the
// balance is computed, mirroring how the dashboard consumed it.
func (h *LeaveHandlerImpl) MyBalance(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.Username(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.ledger.ResetIfNewYear(r.Context(), username); err != nil {
		slog.Error("MyBalance reset error", "error", err)
		response.HandleError(w, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), username)
	if err != nil {
		slog.Error("MyBalance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.BalanceResponse{Username: username, Balance: balance})
}

// ListAll implements LeaveHandler. Admin only; the router gates the role.
func (h *LeaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListAll(r.Context())
	if err != nil {
		slog.Error("ListAll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// SetStatus implements LeaveHandler. Admin only; the router gates the role.
func (h *LeaveHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("PATCH", "/leaves/{id}/status"))
	defer timer.ObserveDuration()

	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	var req leave.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = recordID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.ledger.SetStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveDecisions.WithLabelValues(req.Status).Inc()
	response.SuccessWithMessage(w, "Leave status updated successfully", nil)
}
