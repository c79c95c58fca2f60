package distribution

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/domain"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/infrastructure/cache"
	"github.com/cdnmeta/paraguay.cuentaverificada-sub001/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound    = errors.New("Invoice not found")
	ErrInvoiceNotEligible = errors.New("Invoice is not active or not paid")
	ErrAlreadyDistributed = errors.New("Invoice profit has already been distributed")
	ErrConfigMissing      = errors.New("Distribution configuration not found")
	ErrPoolNotConfigured  = errors.New("Participation pool is not configured")
	ErrPoolConflict       = errors.New("Participation pool was updated concurrently")
	ErrRoundingDrift      = errors.New("Rounding drift exceeds tolerance")
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.PoolCache
}

// Distribute splits one paid invoice's tax base between the seller, all
// current participation holders and the company (transactional).
//
// All reads happen before any write: invoice, subscription, config, pool
// and every holding (one batch query). Shares are computed in memory, each
// amount rounded exactly once, then persisted in one batch together with
// the wallet credits (one per beneficiary, not per row), the pool
// revaluation and the invoice's distributed stamp. The stamp plus the
// unique index on DistributionShares make the operation at-most-once per
// invoice.
func (s *Service) Distribute(ctx context.Context, invoiceID uuid.UUID, firstSale bool) ([]domain.DistributionShare, error) {
	var shares []domain.DistributionShare
	var poolShare float64

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice domain.Invoice
		if err := tx.Where("invoice_id = ?", invoiceID).First(&invoice).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInvoiceNotFound
			}
			return err
		}
		if !invoice.Active || invoice.Status != domain.InvoiceStatusPaid {
			return ErrInvoiceNotEligible
		}
		if invoice.ProfitDistributedAt != nil {
			return ErrAlreadyDistributed
		}

		var sub domain.Subscription
		if err := tx.Where("subscription_id = ?", invoice.SubscriptionID).First(&sub).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInvoiceNotEligible
			}
			return err
		}

		var cfg domain.DistributionConfig
		if err := tx.Where("active = ?", true).First(&cfg).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrConfigMissing
			}
			return err
		}

		var pool domain.ParticipationPool
		if err := tx.Where("pool_id = ?", domain.PoolID).First(&pool).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPoolNotConfigured
			}
			return err
		}

		var holdings []domain.ParticipantHolding
		if err := tx.Where("units_owned > 0").Order(`"createdAt" ASC`).Find(&holdings).Error; err != nil {
			return err
		}

		var err error
		shares, poolShare, err = computeShares(invoice, sub, cfg, holdings, firstSale)
		if err != nil {
			return err
		}

		if len(shares) > 0 {
			if err := tx.Create(&shares).Error; err != nil {
				return err
			}
		}

		// One wallet credit per unique beneficiary, not one per share row.
		payouts := make(map[uuid.UUID]float64)
		for _, sh := range shares {
			if sh.BeneficiaryUserID == nil {
				continue
			}
			payouts[*sh.BeneficiaryUserID] = money.Add(payouts[*sh.BeneficiaryUserID], sh.Amount)
		}
		for userID, amount := range payouts {
			if err := creditWallet(tx, userID, invoice.CurrencyID, amount); err != nil {
				return err
			}
		}

		// The pool is revalued by the allocated share, not the post-rounding
		// distributed sum.
		newPoolValue := money.Add(pool.GlobalPoolValue, poolShare)
		res := tx.Model(&domain.ParticipationPool{}).
			Where("pool_id = ? AND version = ?", pool.PoolID, pool.Version).
			Updates(map[string]interface{}{
				"global_pool_value": newPoolValue,
				"unit_price":        money.Ratio(newPoolValue, pool.TotalUnits),
				"version":           pool.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPoolConflict
		}

		now := time.Now()
		res = tx.Model(&domain.Invoice{}).
			Where("invoice_id = ? AND profit_distributed_at IS NULL", invoice.InvoiceID).
			Update("profit_distributed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDistributed
		}

		eventData, _ := json.Marshal(map[string]interface{}{
			"invoice_id":    invoice.InvoiceID,
			"first_sale":    firstSale,
			"share_count":   len(shares),
			"pool_share":    poolShare,
			"beneficiaries": len(payouts),
		})
		return tx.Create(&domain.AuditEntry{
			EventType: domain.AuditProfitDistributed,
			EventData: datatypes.JSON(eventData),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx)
	log.Info().
		Str("invoice_id", invoiceID.String()).
		Bool("first_sale", firstSale).
		Int("shares", len(shares)).
		Float64("pool_share", poolShare).
		Msg("Profit distributed")
	return shares, nil
}

// computeShares is the pure split: seller cut, per-holder pro-rata cuts,
// rounding remainder, company baseline. Returns the share rows and the
// pool share used for revaluation.
//
// Remainder policy: positive rounding leakage becomes an extra company row
// (kind "rounding"); negative leakage (half-up ties rounding several
// holders upward) is absorbed by the company baseline, never clawed back
// from participants. Drift beyond one rounding unit per holder aborts the
// run, since that can only mean corrupted ownership percentages.
func computeShares(invoice domain.Invoice, sub domain.Subscription, cfg domain.DistributionConfig, holdings []domain.ParticipantHolding, firstSale bool) ([]domain.DistributionShare, float64, error) {
	base := money.Round2(invoice.TaxBaseAmount)

	shares := make([]domain.DistributionShare, 0, len(holdings)+3)

	sellerPct := cfg.SellerPct(firstSale)
	if sub.SellerID != nil {
		sellerAmount := money.Percent(base, sellerPct)
		if sellerAmount > 0 {
			shares = append(shares, domain.DistributionShare{
				InvoiceID:         invoice.InvoiceID,
				BeneficiaryUserID: sub.SellerID,
				Role:              domain.ShareRoleSeller,
				Kind:              domain.ShareKindBase,
				Amount:            sellerAmount,
				CurrencyID:        invoice.CurrencyID,
				ProfitKind:        domain.ProfitKindSubscriptionSale,
			})
		}
	}

	poolShare := money.Percent(base, cfg.ParticipantsPct(firstSale))
	distributed := 0.0
	for _, h := range holdings {
		amount := money.ProRata(poolShare, h.OwnershipPercent)
		if amount <= 0 {
			continue
		}
		userID := h.UserID
		shares = append(shares, domain.DistributionShare{
			InvoiceID:         invoice.InvoiceID,
			BeneficiaryUserID: &userID,
			Role:              domain.ShareRoleParticipant,
			Kind:              domain.ShareKindBase,
			Amount:            amount,
			CurrencyID:        invoice.CurrencyID,
			ProfitKind:        domain.ProfitKindSubscriptionSale,
		})
		distributed = money.Add(distributed, amount)
	}

	remainder := money.Sub(poolShare, distributed)

	companyPct := cfg.CompanyPct(firstSale)
	if sub.SellerID == nil {
		// The seller slice is never silently lost: fold its percentage into
		// the company cut before rounding.
		companyPct += sellerPct
	}
	companyAmount := money.Percent(base, companyPct)

	if remainder > 0 {
		shares = append(shares, domain.DistributionShare{
			InvoiceID:  invoice.InvoiceID,
			Role:       domain.ShareRoleCompany,
			Kind:       domain.ShareKindRounding,
			Amount:     remainder,
			CurrencyID: invoice.CurrencyID,
			ProfitKind: domain.ProfitKindSubscriptionSale,
		})
	} else if remainder < 0 {
		tolerance := 0.01 * float64(len(holdings))
		if -remainder > tolerance {
			return nil, 0, ErrRoundingDrift
		}
		companyAmount = money.Add(companyAmount, remainder)
		if companyAmount < 0 {
			return nil, 0, ErrRoundingDrift
		}
	}

	if companyAmount > 0 {
		shares = append(shares, domain.DistributionShare{
			InvoiceID:  invoice.InvoiceID,
			Role:       domain.ShareRoleCompany,
			Kind:       domain.ShareKindBase,
			Amount:     companyAmount,
			CurrencyID: invoice.CurrencyID,
			ProfitKind: domain.ProfitKindSubscriptionSale,
		})
	}

	return shares, poolShare, nil
}

func creditWallet(tx *gorm.DB, userID uuid.UUID, currencyID string, amount float64) error {
	res := tx.Model(&domain.Wallet{}).
		Where("user_id = ? AND currency_id = ?", userID, currencyID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&domain.Wallet{UserID: userID, CurrencyID: currencyID, Balance: amount}).Error
	}
	return nil
}

// SharesForInvoice returns the ledger rows written for one invoice.
func (s *Service) SharesForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.DistributionShare, error) {
	var rows []domain.DistributionShare
	err := s.DB.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order(`"createdAt" ASC`).
		Find(&rows).Error
	return rows, err
}
