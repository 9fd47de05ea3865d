package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/internal/service"
)

type PharmacyHandler struct {
	pharmacySvc *service.PharmacyService
}

func NewPharmacyHandler(pharmacySvc *service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacySvc: pharmacySvc}
}

func (h *PharmacyHandler) ListOrders(c *gin.Context) {
	q := &pharmacy.ListOrdersQuery{}
	if raw := c.Query("status"); raw != "" {
		status := pharmacy.OrderStatus(raw)
		if !status.IsValid() {
			respondError(c, 400, "invalid status filter")
			return
		}
		q.Status = &status
	}
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, 400, "invalid patient_id")
			return
		}
		q.PatientID = &id
	}

	orders, err := h.pharmacySvc.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, orders)
}

func (h *PharmacyHandler) GetOrder(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.pharmacySvc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"order": order, "total": order.Total()})
}

func (h *PharmacyHandler) Dispense(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.pharmacySvc.Dispense(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"order":    result.Order,
		"total":    result.Total,
		"deficits": result.Deficits,
	})
}

type inventoryItemResponse struct {
	*pharmacy.InventoryItem
	StockStatus pharmacy.StockStatus `json:"stock_status"`
}

func (h *PharmacyHandler) ListInventory(c *gin.Context) {
	items, err := h.pharmacySvc.ListInventory(c.Request.Context(), &pharmacy.ListInventoryQuery{
		Search:  c.Query("search"),
		OnlyLow: c.Query("only_low") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]inventoryItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, inventoryItemResponse{InventoryItem: it, StockStatus: it.StockStatus()})
	}
	respondOK(c, resp)
}

type updateStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

func (h *PharmacyHandler) UpdateStock(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.pharmacySvc.UpdateStock(c.Request.Context(), &pharmacy.UpdateStockCommand{
		ItemID:    id,
		Stock:     req.Stock,
		UpdatedBy: claims.UserID,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, inventoryItemResponse{InventoryItem: item, StockStatus: item.StockStatus()})
}
