package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MhisterKhing6/shortly/internal/api/service"
	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
)

// ReconciliationHandler handles HTTP requests for settlement operations
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Reconcile settles a bulk sheet of assignment ids
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var settledAt *time.Time
	if req.SettledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SettledAt)
		if err != nil {
			RespondBadRequest(c, "Invalid settled_at timestamp, expected RFC3339")
			return
		}
		settledAt = &parsed
	}

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), req.AssignmentIDs, settledAt, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, ReconcileResponse{
		Settled: result.Settled,
		Skipped: result.Skipped,
	})
}

// ReconcileOne settles a single assignment with an explicit collected amount
func (h *ReconciliationHandler) ReconcileOne(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req ReconcileOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var settledAt *time.Time
	if req.SettledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SettledAt)
		if err != nil {
			RespondBadRequest(c, "Invalid settled_at timestamp, expected RFC3339")
			return
		}
		settledAt = &parsed
	}

	assignmentID := c.Param("assignmentId")
	if err := h.reconciliationService.ReconcileOne(c.Request.Context(), assignmentID, *req.PayedAmount, settledAt, caller); err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, gin.H{"assignment_id": assignmentID, "settled": true})
}

// Stats returns the caller's office settlement statistics over a period
func (h *ReconciliationHandler) Stats(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	period, err := reconciliation.ParsePeriod(c.Query("period"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	stats, err := h.reconciliationService.Stats(c.Request.Context(), period, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, StatsResponse{
		Period:             string(period),
		CompletedCount:     stats.CompletedCount,
		NotCompletedCount:  stats.NotCompletedCount,
		CompletedAmount:    stats.CompletedAmount,
		NotCompletedAmount: stats.NotCompletedAmount,
		TotalCount:         stats.TotalCount,
		TotalAmount:        stats.TotalAmount,
	})
}

// ListRiderRecords returns a page of a rider's settlement history
func (h *ReconciliationHandler) ListRiderRecords(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, err := h.reconciliationService.ListRiderRecords(c.Request.Context(), c.Param("riderId"), params.Page, params.PerPage, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, records)
}
