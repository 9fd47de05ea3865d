package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/advisory"
	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/service"
)

type AdvisoryHandler struct {
	client  *advisory.Client
	flowSvc *service.FlowService
}

func NewAdvisoryHandler(client *advisory.Client, flowSvc *service.FlowService) *AdvisoryHandler {
	return &AdvisoryHandler{client: client, flowSvc: flowSvc}
}

type advisoryRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required,uuid"`
}

// Suggest requests an AI differential for the appointment's recorded
// symptoms. The upstream call can take several seconds; if the consultation
// the request was issued for is no longer active when the response arrives,
// the suggestion is discarded rather than shown against the wrong patient.
func (h *AdvisoryHandler) Suggest(c *gin.Context) {
	var req advisoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid appointment_id")
		return
	}

	a, err := h.flowSvc.GetAppointment(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	p, err := h.flowSvc.PatientOf(ctx, a)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	suggestion, err := h.client.Suggest(ctx, a.Symptoms, p.Age, string(p.Gender))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Stale guard: re-read the appointment after the (slow) upstream call.
	current, err := h.flowSvc.GetAppointment(ctx, a.ID)
	if err != nil || current.Status == appointment.StatusCompleted || current.Status == appointment.StatusCancelled {
		h.client.MarkStale()
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "consultation is no longer active; suggestion discarded",
			Code:  "STALE_SUGGESTION",
		})
		return
	}

	respondOK(c, suggestion)
}
