package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain/appointment"
	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/domain/pharmacy"
	"github.com/clinovahealth/clinicflow/internal/service"
)

// FlowHandler exposes the appointment lifecycle: registration, payment,
// check-in, the doctor's queue, and consultation finalize.
type FlowHandler struct {
	flowSvc *service.FlowService
}

func NewFlowHandler(flowSvc *service.FlowService) *FlowHandler {
	return &FlowHandler{flowSvc: flowSvc}
}

type registerWalkInRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Age        int    `json:"age" binding:"required"`
	Gender     string `json:"gender" binding:"required"`
	DoctorName string `json:"doctor_name" binding:"required"`
	Symptoms   string `json:"symptoms"`
}

func (h *FlowHandler) RegisterWalkIn(c *gin.Context) {
	claims, _ := claimsFrom(c)

	var req registerWalkInRequest
	if !bindJSON(c, &req) {
		return
	}

	p, a, err := h.flowSvc.RegisterWalkIn(c.Request.Context(), &service.RegisterWalkInCommand{
		Name:       req.Name,
		Phone:      req.Phone,
		Age:        req.Age,
		Gender:     patient.Gender(req.Gender),
		DoctorName: req.DoctorName,
		Symptoms:   req.Symptoms,
		CreatedBy:  claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"patient": p, "appointment": a})
}

type scheduleRequest struct {
	PatientID  uuid.UUID `json:"patient_id" binding:"required"`
	DoctorName string    `json:"doctor_name" binding:"required"`
	TimeSlot   string    `json:"time_slot" binding:"required"`
	Symptoms   string    `json:"symptoms"`
	TotalBill  int64     `json:"total_bill"`
}

func (h *FlowHandler) Schedule(c *gin.Context) {
	claims, _ := claimsFrom(c)

	var req scheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.flowSvc.ScheduleAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID:  req.PatientID,
		DoctorName: req.DoctorName,
		TimeSlot:   req.TimeSlot,
		Symptoms:   req.Symptoms,
		TotalBill:  req.TotalBill,
		CreatedBy:  claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *FlowHandler) List(c *gin.Context) {
	q := &appointment.ListAppointmentsQuery{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			respondError(c, 400, "invalid status filter")
			return
		}
		q.Status = &status
	}

	appts, err := h.flowSvc.ListAppointments(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *FlowHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.flowSvc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// CollectPayment is intentionally tolerant: re-collecting or paying an
// unknown id returns 200 with no data so front-desk re-clicks stay harmless.
func (h *FlowHandler) CollectPayment(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.flowSvc.CollectPayment(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *FlowHandler) CheckIn(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.flowSvc.CheckIn(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *FlowHandler) Start(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.flowSvc.StartConsultation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type prescriptionItemRequest struct {
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required"`
	Dosage     string    `json:"dosage"`
	UnitPrice  int64     `json:"unit_price"`
}

type finalizeRequest struct {
	Diagnosis   string                    `json:"diagnosis" binding:"required"`
	Items       []prescriptionItemRequest `json:"items"`
	LabTests    []string                  `json:"lab_tests"`
	LabPriority string                    `json:"lab_priority"`
}

func (h *FlowHandler) Finalize(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req finalizeRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]pharmacy.PrescriptionItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pharmacy.PrescriptionItem{
			MedicineID: it.MedicineID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Dosage:     it.Dosage,
			UnitPrice:  it.UnitPrice,
		})
	}

	result, err := h.flowSvc.FinalizeConsultation(c.Request.Context(), id, &appointment.FinalizeConsultationCommand{
		Diagnosis:   req.Diagnosis,
		Items:       items,
		LabTests:    req.LabTests,
		LabPriority: req.LabPriority,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"appointment": result.Appointment,
		"order":       result.Order,
		"lab_orders":  result.LabOrders,
	})
}

func (h *FlowHandler) Cancel(c *gin.Context) {
	claims, _ := claimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.flowSvc.CancelAppointment(c.Request.Context(), id, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// Queue returns the doctor's active queue plus the default selection.
func (h *FlowHandler) Queue(c *gin.Context) {
	ctx := c.Request.Context()

	queue, err := h.flowSvc.Queue(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var explicit *uuid.UUID
	if raw := c.Query("selected"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			explicit = &id
		}
	}
	selected, err := h.flowSvc.SelectFromQueue(ctx, explicit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{"queue": queue}
	if selected != nil {
		resp["selected"] = selected
	}
	respondOK(c, resp)
}
