package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinovahealth/clinicflow/internal/domain/lab"
	"github.com/clinovahealth/clinicflow/internal/service"
)

type LabHandler struct {
	labSvc *service.LabService
}

func NewLabHandler(labSvc *service.LabService) *LabHandler {
	return &LabHandler{labSvc: labSvc}
}

func (h *LabHandler) List(c *gin.Context) {
	q := &lab.ListOrdersQuery{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := lab.Status(raw)
		if !status.IsValid() {
			respondError(c, 400, "invalid status filter")
			return
		}
		q.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := lab.Priority(raw)
		if !priority.IsValid() {
			respondError(c, 400, "invalid priority filter")
			return
		}
		q.Priority = &priority
	}

	orders, err := h.labSvc.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, orders)
}

func (h *LabHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.labSvc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *LabHandler) Advance(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.labSvc.Advance(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *LabHandler) Counts(c *gin.Context) {
	counts, err := h.labSvc.Counts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, counts)
}
