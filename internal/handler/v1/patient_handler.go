package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/clinovahealth/clinicflow/internal/domain/patient"
	"github.com/clinovahealth/clinicflow/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
	flowSvc    *service.FlowService
}

func NewPatientHandler(patientSvc *service.PatientService, flowSvc *service.FlowService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc, flowSvc: flowSvc}
}

type registerPatientRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
}

func (h *PatientHandler) Register(c *gin.Context) {
	claims, _ := claimsFrom(c)

	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.Register(c.Request.Context(), &patient.RegisterPatientCommand{
		Name:      req.Name,
		Phone:     req.Phone,
		Age:       req.Age,
		Gender:    patient.Gender(req.Gender),
		CreatedBy: claims.UserID,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientSvc.List(c.Request.Context(), &patient.ListPatientsQuery{
		Search: c.Query("search"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patients)
}

// History returns the patient's completed visits: diagnosis, prescriptions,
// and ordered tests per visit.
func (h *PatientHandler) History(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	visits, err := h.flowSvc.PatientHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, visits)
}
