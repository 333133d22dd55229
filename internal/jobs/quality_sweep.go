package jobs

import (
	"context"
	"time"

	"github.com/kardexcare/service-api/internal/service"
	"go.uber.org/zap"
)

// sweepTimeout bounds a single nightly run.
const sweepTimeout = 10 * time.Minute

// RegisterQualitySweep schedules the nightly offer data repair: month
// strings whose year drifted from the registration date are rewritten,
// and the deprecated PO_RECEIVED stage is collapsed to WON.
func RegisterQualitySweep(s *Scheduler, schedule string, quality *service.QualityService, logger *zap.Logger) error {
	return s.AddJob("offer-quality-sweep", schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		result, err := quality.Run(ctx)
		if err != nil {
			logger.Error("offer quality sweep failed", zap.Error(err))
			return
		}
		logger.Info("offer quality sweep finished",
			zap.Int("months_repaired", result.MonthsRepaired),
			zap.Int("stages_collapsed", result.StagesCollapsed),
		)
	})
}
