package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/internal/service"
)

// ReportHandler backs the admin dashboard: day-level aggregates across the
// clinical, pharmacy, and lab queues.
type ReportHandler struct {
	flowSvc     *service.FlowService
	pharmacySvc *service.PharmacyService
	labSvc      *service.LabService
}

func NewReportHandler(flowSvc *service.FlowService, pharmacySvc *service.PharmacyService, labSvc *service.LabService) *ReportHandler {
	return &ReportHandler{flowSvc: flowSvc, pharmacySvc: pharmacySvc, labSvc: labSvc}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	appts, err := h.flowSvc.ListAppointments(ctx, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	apptCounts := map[appointment.Status]int{}
	var revenue int64
	for _, a := range appts {
		apptCounts[a.Status]++
		if a.Paid {
			revenue += a.TotalBill
		}
	}

	pendingStatus := pharmacy.StatusPending
	pendingOrders, err := h.pharmacySvc.ListOrders(ctx, &pharmacy.ListOrdersQuery{Status: &pendingStatus})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	lowStock, err := h.pharmacySvc.ListInventory(ctx, &pharmacy.ListInventoryQuery{OnlyLow: true})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	labCounts, err := h.labSvc.Counts(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"appointments":    apptCounts,
		"revenue":         revenue,
		"pending_orders":  len(pendingOrders),
		"low_stock_items": len(lowStock),
		"lab":             labCounts,
	})
}
