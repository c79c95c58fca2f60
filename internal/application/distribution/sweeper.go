package distribution

import (
	"context"

	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Sweeper periodically distributes paid invoices the synchronous flow
// missed (e.g. renewals confirmed while the service was down). The
// distributed stamp makes a sweep safe to re-run and safe to race with the
// HTTP endpoint: the loser of the race gets ErrAlreadyDistributed and
// moves on.
type Sweeper struct {
	DB      *gorm.DB
	Service *Service

	cron *cron.Cron
}

// Start schedules the sweep with the given cron spec and starts the
// scheduler. An empty spec disables the sweeper.
func (s *Sweeper) Start(spec string) error {
	if spec == "" {
		return nil
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() {
		s.Run(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", spec).Msg("Distribution sweeper started")
	return nil
}

// Stop halts the scheduler; a sweep already running finishes.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Run distributes every paid, active, undistributed invoice once.
// Failures are logged and skipped so one bad invoice cannot starve the
// rest of the batch.
func (s *Sweeper) Run(ctx context.Context) {
	var invoices []domain.Invoice
	err := s.DB.WithContext(ctx).
		Where("status = ? AND active = ? AND profit_distributed_at IS NULL", domain.InvoiceStatusPaid, true).
		Order(`"createdAt" ASC`).
		Find(&invoices).Error
	if err != nil {
		log.Error().Err(err).Msg("Distribution sweep: listing invoices failed")
		return
	}

	swept, failed := 0, 0
	for _, inv := range invoices {
		firstSale, err := s.isFirstSale(ctx, inv)
		if err != nil {
			failed++
			log.Error().Err(err).Str("invoice_id", inv.InvoiceID.String()).Msg("Distribution sweep: first-sale check failed")
			continue
		}
		if _, err := s.Service.Distribute(ctx, inv.InvoiceID, firstSale); err != nil {
			if err == ErrAlreadyDistributed {
				continue
			}
			failed++
			log.Error().Err(err).Str("invoice_id", inv.InvoiceID.String()).Msg("Distribution sweep: distribute failed")
			continue
		}
		swept++
	}
	if swept > 0 || failed > 0 {
		log.Info().Int("swept", swept).Int("failed", failed).Msg("Distribution sweep finished")
	}
}

// isFirstSale reports whether no invoice of the same subscription has been
// distributed yet.
func (s *Sweeper) isFirstSale(ctx context.Context, inv domain.Invoice) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.Invoice{}).
		Where("subscription_id = ? AND profit_distributed_at IS NOT NULL", inv.SubscriptionID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
