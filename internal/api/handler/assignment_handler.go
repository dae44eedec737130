package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MhisterKhing6/shortly/internal/api/middleware"
	"github.com/MhisterKhing6/shortly/internal/api/service"
	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
)

// AssignmentHandler handles HTTP requests for assignment operations
type AssignmentHandler struct {
	assignmentService service.AssignmentService
	logger            *slog.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(logger *slog.Logger, assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

func callerFrom(c *gin.Context) (auth.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing caller identity")
	}
	return caller, ok
}

// Create assigns a batch of parcels to a rider
func (h *AssignmentHandler) Create(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.assignmentService.Create(c.Request.Context(), req.RiderID, req.ParcelIDs, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, CreateAssignmentResponse{
		AssignmentID:     result.AssignmentID,
		RiderPhoneNumber: result.RiderPhoneNumber,
		AssignedParcels:  result.AssignedParcels,
		SkippedParcels:   result.SkippedParcels,
	})
}

// List returns a page of the caller's office assignments, optionally
// filtered by status and payment flag
func (h *AssignmentHandler) List(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter, ok := parseOfficeFilter(c)
	if !ok {
		return
	}

	assignments, total, err := h.assignmentService.ListByOffice(c.Request.Context(), filter, pagination.Page, pagination.PerPage, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapAssignmentsToResponse(assignments), pagination.Page, pagination.PerPage, int(total))
}

// ListCancelled returns a page of the caller's office cancelled assignments
func (h *AssignmentHandler) ListCancelled(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	assignments, total, err := h.assignmentService.ListCancelled(c.Request.Context(), pagination.Page, pagination.PerPage, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapAssignmentsToResponse(assignments), pagination.Page, pagination.PerPage, int(total))
}

// ListMine returns the authenticated rider's own assignments
func (h *AssignmentHandler) ListMine(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	onlyUndelivered := c.Query("undelivered") == "true"
	receiverPhone := c.Query("receiver_phone")

	assignments, err := h.assignmentService.ListForRider(c.Request.Context(), onlyUndelivered, receiverPhone, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAssignmentsToResponse(assignments))
}

// ListByRider is the front-desk view of one rider's assignments filtered
// by payment flag
func (h *AssignmentHandler) ListByRider(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	payed, err := strconv.ParseBool(c.DefaultQuery("payed", "false"))
	if err != nil {
		RespondBadRequest(c, "Invalid payed flag")
		return
	}

	assignments, err := h.assignmentService.ListRiderByID(c.Request.Context(), c.Param("riderId"), payed, caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAssignmentsToResponse(assignments))
}

// UpdateStatus applies a transition on the rider path
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	h.applyTransition(c, false)
}

// OverrideStatus applies a transition on the manager path
func (h *AssignmentHandler) OverrideStatus(c *gin.Context) {
	h.applyTransition(c, true)
}

func (h *AssignmentHandler) applyTransition(c *gin.Context, override bool) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	update := service.StatusUpdate{
		Status:            assignment.Status(req.Status),
		ConfirmationCode:  req.ConfirmationCode,
		CancelationReason: req.CancelationReason,
		ParcelID:          req.ParcelID,
		PaymentMethod:     req.PaymentMethod,
	}

	var (
		a   *assignment.Assignment
		err error
	)
	if override {
		a, err = h.assignmentService.OverrideStatus(c.Request.Context(), c.Param("id"), update, caller)
	} else {
		a, err = h.assignmentService.UpdateStatus(c.Request.Context(), c.Param("id"), update, caller)
	}
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAssignmentToResponse(a))
}

// ResendCode re-sends the confirmation SMS to every active receiver in
// the batch
func (h *AssignmentHandler) ResendCode(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	if err := h.assignmentService.ResendConfirmationCode(c.Request.Context(), c.Param("id"), caller); err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, gin.H{"resent": true})
}

// ListReasons returns the known cancellation reasons, most used first
func (h *AssignmentHandler) ListReasons(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	reasons, err := h.assignmentService.ListCancelationReasons(c.Request.Context(), caller)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapReasonsToResponse(reasons))
}

// parseOfficeFilter reads the optional status, payed and sort query
// parameters. The bool result is false when a response has already been
// written.
func parseOfficeFilter(c *gin.Context) (assignment.OfficeFilter, bool) {
	var filter assignment.OfficeFilter

	if raw := c.Query("status"); raw != "" {
		status := assignment.Status(raw)
		switch status {
		case assignment.StatusAssigned, assignment.StatusAccepted, assignment.StatusDelivered,
			assignment.StatusCancelled, assignment.StatusCompleted:
			filter.Status = &status
		default:
			RespondBadRequest(c, "Unknown status filter: "+raw)
			return filter, false
		}
	}

	if raw := c.Query("payed"); raw != "" {
		payed, err := strconv.ParseBool(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid payed flag")
			return filter, false
		}
		filter.Payed = &payed
	}

	filter.SortAsc = c.Query("sort") == "asc"

	return filter, true
}
