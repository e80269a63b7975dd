package cron

import (
	"time"

	"carbid-backend/internal/application/closer"
	"carbid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for scheduled-job endpoints.
type Handlers struct {
	Closer     *closer.Service
	CronSecret string
}

// SweepAuctions POST /api/v1/cron/auction-status finalizes every expired
// active auction. Guarded by the X-Cron-Secret header so only the scheduler
// can trigger it.
func (h *Handlers) SweepAuctions(c *fiber.Ctx) error {
	if h.CronSecret == "" || c.Get("X-Cron-Secret") != h.CronSecret {
		return response.Unauthorized(c, "Unauthorized")
	}

	report, err := h.Closer.RunSweep(c.Context(), time.Now())
	if err != nil {
		log.Error().Err(err).Msg("auction sweep failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	log.Info().
		Int("resolved", len(report.Resolved)).
		Int("skipped", len(report.Skipped)).
		Int("errors", len(report.Errors)).
		Msg("auction sweep completed")

	return response.Success(c, "Sweep completed", report, nil)
}
