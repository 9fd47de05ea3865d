package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/pkg/database"
)

type SystemHandler struct {
	cfg *config.Config
}

func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

func (h *SystemHandler) Health(c *gin.Context) {
	respondOK(c, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

// Backend probes the database and reports connectivity. The result is a
// status badge for the admin view; nothing in the clinical flow gates on it.
func (h *SystemHandler) Backend(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := gin.H{
		"store":    h.cfg.Store.Driver,
		"database": database.Probe(ctx, h.cfg.Database),
	}
	if h.cfg.Store.Driver == "memory" {
		resp["note"] = "memory store active; database shown for reference only"
	}
	respondOK(c, resp)
}
