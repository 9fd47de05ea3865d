package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinovahealth/clinicflow/internal/advisory"
	"github.com/clinovahealth/clinicflow/internal/authz"
	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/internal/service"
	"github.com/clinovahealth/clinicflow/pkg/auth"
	"github.com/clinovahealth/clinicflow/pkg/metrics"
)

type Dependencies struct {
	Config      *config.Config
	JWTManager  *auth.JWTManager
	Metrics     *metrics.Collector
	Logger      *zap.Logger
	AuthSvc     *service.AuthService
	PatientSvc  *service.PatientService
	FlowSvc     *service.FlowService
	PharmacySvc *service.PharmacyService
	LabSvc      *service.LabService
	Advisory    *advisory.Client
}

// NewRouter builds the full HTTP surface. Every clinical route sits behind
// authentication plus a role-scoped action check.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(deps.Logger))
	router.Use(Metrics(deps.Metrics))

	systemHandler := NewSystemHandler(deps.Config)
	authHandler := NewAuthHandler(deps.AuthSvc)
	patientHandler := NewPatientHandler(deps.PatientSvc, deps.FlowSvc)
	flowHandler := NewFlowHandler(deps.FlowSvc)
	pharmacyHandler := NewPharmacyHandler(deps.PharmacySvc)
	labHandler := NewLabHandler(deps.LabSvc)
	advisoryHandler := NewAdvisoryHandler(deps.Advisory, deps.FlowSvc)
	reportHandler := NewReportHandler(deps.FlowSvc, deps.PharmacySvc, deps.LabSvc)

	router.GET("/healthz", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("")
	authed.Use(Authenticate(deps.JWTManager))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/auth/password", authHandler.ChangePassword)

		authed.GET("/system/backend", systemHandler.Backend)

		patients := authed.Group("/patients")
		{
			patients.POST("", RequireAction(authz.ActionRegisterWalkIn), patientHandler.Register)
			patients.GET("", RequireAction(authz.ActionViewPatientRegistry), patientHandler.List)
			patients.GET("/:id", RequireAction(authz.ActionViewPatientRegistry), patientHandler.Get)
			patients.GET("/:id/history", RequireAction(authz.ActionViewPatientHistory), patientHandler.History)
		}

		appts := authed.Group("/appointments")
		{
			appts.POST("/walkin", RequireAction(authz.ActionRegisterWalkIn), flowHandler.RegisterWalkIn)
			appts.POST("", RequireAction(authz.ActionRegisterWalkIn), flowHandler.Schedule)
			appts.GET("", RequireAction(authz.ActionViewAppointments), flowHandler.List)
			appts.GET("/:id", RequireAction(authz.ActionViewAppointments), flowHandler.Get)
			appts.POST("/:id/payment", RequireAction(authz.ActionCollectPayment), flowHandler.CollectPayment)
			appts.POST("/:id/checkin", RequireAction(authz.ActionCheckIn), flowHandler.CheckIn)
			appts.POST("/:id/start", RequireAction(authz.ActionStartConsultation), flowHandler.Start)
			appts.POST("/:id/finalize", RequireAction(authz.ActionFinalizeConsult), flowHandler.Finalize)
			appts.POST("/:id/cancel", RequireAction(authz.ActionCancelAppointment), flowHandler.Cancel)
		}

		authed.GET("/queue", RequireAction(authz.ActionViewQueue), flowHandler.Queue)

		pharmacyGroup := authed.Group("/pharmacy")
		{
			pharmacyGroup.GET("/orders", RequireAction(authz.ActionDispense), pharmacyHandler.ListOrders)
			pharmacyGroup.GET("/orders/:id", RequireAction(authz.ActionDispense), pharmacyHandler.GetOrder)
			pharmacyGroup.POST("/orders/:id/dispense", RequireAction(authz.ActionDispense), pharmacyHandler.Dispense)
			pharmacyGroup.GET("/inventory", RequireAction(authz.ActionViewInventory), pharmacyHandler.ListInventory)
			pharmacyGroup.PUT("/inventory/:id/stock", RequireAction(authz.ActionUpdateInventory), pharmacyHandler.UpdateStock)
		}

		labGroup := authed.Group("/lab")
		{
			labGroup.GET("/orders", RequireAction(authz.ActionViewLabOrders), labHandler.List)
			labGroup.GET("/orders/counts", RequireAction(authz.ActionViewLabOrders), labHandler.Counts)
			labGroup.GET("/orders/:id", RequireAction(authz.ActionViewLabOrders), labHandler.Get)
			labGroup.POST("/orders/:id/advance", RequireAction(authz.ActionAdvanceLabOrder), labHandler.Advance)
		}

		authed.POST("/advisory/suggest", RequireAction(authz.ActionRequestAIAdvisory), advisoryHandler.Suggest)

		authed.GET("/reports/summary", RequireAction(authz.ActionViewReports), reportHandler.Summary)
	}

	return router
}
