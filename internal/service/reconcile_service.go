package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"savoria/internal/dto"
	"savoria/internal/infra"
	"savoria/internal/model"
	"savoria/internal/repository"
	"savoria/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReconcileService is the sales-to-inventory reconciliation engine.
//
// Preview is a pure read: it resolves every sale record against the current
// catalog and stock and reports what a commit would do. Commit re-resolves
// against live state inside one transaction and applies the batch atomically.
// A preview held by the caller is never trusted at commit time; stock may
// have moved between the two calls.
//
// Commit is deliberately NOT idempotent: submitting the same records twice
// deducts inventory twice. Deduplication of user re-entry belongs to the
// caller.
type ReconcileService interface {
	Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error)
	Commit(ctx context.Context, req dto.CommitRequest) (*dto.CommitResponse, error)
}

type reconcileService struct {
	ingredients repository.IngredientRepository
	products    repository.ProductRepository
	history     repository.SaleHistoryRepository
	movements   repository.StockMovementRepository
	audit       repository.AuditRepository
	lock        *infra.CommitLock  // nil in unit tests; no cross-process serialization
	dispatcher  *worker.Dispatcher // nil in unit tests; no async side channels
}

func NewReconcileService(
	ingredients repository.IngredientRepository,
	products repository.ProductRepository,
	history repository.SaleHistoryRepository,
	movements repository.StockMovementRepository,
	audit repository.AuditRepository,
	lock *infra.CommitLock,
	dispatcher *worker.Dispatcher,
) ReconcileService {
	return &reconcileService{
		ingredients: ingredients,
		products:    products,
		history:     history,
		movements:   movements,
		audit:       audit,
		lock:        lock,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Preview ──────────────────────────────────────────────────────────────────

func (s *reconcileService) Preview(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	snap, err := s.ingredients.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ingredient snapshot: %w", err)
	}
	return s.buildPreview(ctx, nil, req.Records, snap), nil
}

// buildPreview runs matching, resolution and pricing over a batch without
// mutating anything. One bad record never aborts the batch: per-record
// failures become unmatched entries, per-ingredient shortfalls become
// warnings. Identical inputs against identical store state produce identical
// output; record order and resolver first-seen order are both stable.
// tx is the open commit transaction, or nil for a plain preview; all catalog
// reads go through it so commit re-resolves against one consistent view.
func (s *reconcileService) buildPreview(ctx context.Context, tx *gorm.DB, records []dto.SaleRecord, snap map[uuid.UUID]*model.Ingredient) *dto.PreviewResponse {
	pv := &dto.PreviewResponse{
		Matched:   []dto.MatchedSale{},
		Unmatched: []dto.UnmatchedSale{},
		Warnings:  []string{},
		Totals: dto.PreviewTotals{
			Revenue: decimal.Zero,
			Cost:    decimal.Zero,
			Profit:  decimal.Zero,
		},
	}

	for _, rec := range records {
		if strings.TrimSpace(rec.ProductName) == "" {
			pv.Unmatched = append(pv.Unmatched, dto.UnmatchedSale{
				ProductName: rec.ProductName, Quantity: rec.Quantity, Reason: "Product name is empty",
			})
			continue
		}
		if !rec.Quantity.IsPositive() {
			pv.Unmatched = append(pv.Unmatched, dto.UnmatchedSale{
				ProductName: rec.ProductName, Quantity: rec.Quantity, Reason: "Quantity must be positive",
			})
			continue
		}

		product, err := s.productFor(ctx, tx, rec.ProductName)
		if err != nil {
			pv.Unmatched = append(pv.Unmatched, dto.UnmatchedSale{
				ProductName: rec.ProductName, Quantity: rec.Quantity, Reason: "Product not found",
			})
			continue
		}

		deductions, err := ResolveRecipe(product.Recipe, rec.Quantity, snap)
		if err != nil {
			// Data-integrity problem upstream, not a transient fault.
			log.Warn().Str("product", product.Name).Err(err).Msg("recipe resolution failed")
			pv.Unmatched = append(pv.Unmatched, dto.UnmatchedSale{
				ProductName: rec.ProductName, Quantity: rec.Quantity, Reason: err.Error(),
			})
			continue
		}

		lines := make([]dto.DeductionLine, 0, len(deductions))
		for _, d := range deductions {
			ing := snap[d.IngredientID]
			newQty := ing.QuantityOnHand.Sub(d.Quantity)
			lines = append(lines, dto.DeductionLine{
				IngredientID:   d.IngredientID.String(),
				IngredientName: ing.Name,
				Unit:           ing.Unit,
				Deduction:      d.Quantity,
				CurrentQty:     ing.QuantityOnHand,
				NewQty:         newQty,
			})
			if newQty.IsNegative() {
				pv.Warnings = append(pv.Warnings, fmt.Sprintf(
					"Insufficient stock for %s: need %s %s, have %s %s",
					ing.Name, d.Quantity.String(), ing.Unit, ing.QuantityOnHand.String(), ing.Unit))
			}
		}

		pricing := PriceSale(product.SellingPrice, rec.SalePrice, rec.Quantity, deductions, snap)
		pv.Matched = append(pv.Matched, dto.MatchedSale{
			ProductName:     product.Name,
			Quantity:        rec.Quantity,
			OriginalPrice:   product.SellingPrice,
			SalePrice:       pricing.EffectivePrice,
			DiscountAmount:  pricing.DiscountAmount,
			DiscountPercent: pricing.DiscountPercent,
			Revenue:         pricing.Revenue,
			Cost:            pricing.Cost,
			Profit:          pricing.Profit,
			Ingredients:     lines,
		})
		pv.Totals.Revenue = pv.Totals.Revenue.Add(pricing.Revenue)
		pv.Totals.Cost = pv.Totals.Cost.Add(pricing.Cost)
		pv.Totals.Profit = pv.Totals.Profit.Add(pricing.Profit)
	}

	return pv
}

// ── Commit ───────────────────────────────────────────────────────────────────

// Commit applies a batch as one all-or-nothing unit:
//  1. serialize against concurrent commits (bounded lock wait),
//  2. re-run the preview against live state inside the transaction,
//  3. aggregate deductions per base ingredient across all matched sales,
//  4. deduct stock in ascending ingredient-id order and record a movement per
//     ingredient,
//  5. append one sale-history row per matched sale and one audit event for
//     the batch.
//
// Any failure inside the transaction rolls everything back; the caller gets a
// "nothing was applied" error, never a partially-deducted inventory.
func (s *reconcileService) Commit(ctx context.Context, req dto.CommitRequest) (*dto.CommitResponse, error) {
	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	batchID := uuid.New()
	var (
		resp       *dto.CommitResponse
		committed  *dto.PreviewResponse
		snapshot   map[uuid.UUID]*model.Ingredient
		deductions map[uuid.UUID]decimal.Decimal
	)

	txErr := runTx(ctx, s.ingredients.DB(), func(tx *gorm.DB) error {
		snap, err := s.snapshotFor(ctx, tx)
		if err != nil {
			return fmt.Errorf("load ingredient snapshot: %w", err)
		}

		pv := s.buildPreview(ctx, tx, req.Records, snap)

		// Net out the total deduction per base ingredient before writing:
		// a product sold twice, or two products sharing an ingredient, must
		// collapse into a single stock update.
		totals := make(map[uuid.UUID]decimal.Decimal)
		for _, sale := range pv.Matched {
			for _, line := range sale.Ingredients {
				id := uuid.MustParse(line.IngredientID)
				totals[id] = totals[id].Add(line.Deduction)
			}
		}

		// Stable ascending-id write order: concurrent batches sharing
		// ingredients acquire row locks in the same order, so they cannot
		// deadlock each other.
		ids := make([]uuid.UUID, 0, len(totals))
		for id := range totals {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return bytes.Compare(ids[i][:], ids[j][:]) < 0
		})

		for _, id := range ids {
			ing := snap[id]
			total := totals[id]
			if err := s.ingredients.DeductStockTx(tx, id, total); err != nil {
				return fmt.Errorf("deduct stock for %s: %w", ing.Name, err)
			}
			ref := batchID
			mov := &model.StockMovement{
				IngredientID: id,
				Type:         "sale_deduction",
				Quantity:     total.Neg(),
				QtyBefore:    ing.QuantityOnHand,
				QtyAfter:     ing.QuantityOnHand.Sub(total),
				Reason:       fmt.Sprintf("Sales reconciliation %s", req.SaleDate),
				BatchID:      &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return fmt.Errorf("record movement for %s: %w", ing.Name, err)
			}
		}

		for _, sale := range pv.Matched {
			row := &model.SaleHistory{
				BatchID:         batchID,
				SaleDate:        req.SaleDate,
				SaleTime:        req.SaleTime,
				ProductName:     sale.ProductName,
				Quantity:        sale.Quantity,
				OriginalPrice:   sale.OriginalPrice,
				SalePrice:       sale.SalePrice,
				DiscountAmount:  sale.DiscountAmount,
				DiscountPercent: sale.DiscountPercent,
				Revenue:         sale.Revenue,
				Cost:            sale.Cost,
				Profit:          sale.Profit,
			}
			if err := s.history.CreateTx(tx, row); err != nil {
				return fmt.Errorf("append sale history: %w", err)
			}
		}

		event := &model.AuditEvent{
			BatchID:        batchID,
			SaleDate:       req.SaleDate,
			SalesProcessed: len(pv.Matched),
			SalesSkipped:   len(pv.Unmatched),
			TotalRevenue:   pv.Totals.Revenue,
			TotalCost:      pv.Totals.Cost,
			TotalProfit:    pv.Totals.Profit,
		}
		if err := s.audit.CreateTx(tx, event); err != nil {
			return fmt.Errorf("record audit event: %w", err)
		}

		resp = &dto.CommitResponse{
			BatchID:        batchID.String(),
			SalesProcessed: len(pv.Matched),
			TotalRevenue:   pv.Totals.Revenue,
			TotalCost:      pv.Totals.Cost,
			TotalProfit:    pv.Totals.Profit,
			Skipped:        pv.Unmatched,
		}
		committed, snapshot, deductions = pv, snap, totals
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("commit failed, nothing was applied: %w", txErr)
	}

	s.enqueueSideChannels(ctx, batchID, req.SaleDate, committed, snapshot, deductions)

	log.Info().
		Str("batch_id", batchID.String()).
		Int("processed", resp.SalesProcessed).
		Int("skipped", len(resp.Skipped)).
		Str("revenue", resp.TotalRevenue.String()).
		Msg("reconciliation batch committed")

	return resp, nil
}

func (s *reconcileService) snapshotFor(ctx context.Context, tx *gorm.DB) (map[uuid.UUID]*model.Ingredient, error) {
	if tx == nil {
		return s.ingredients.Snapshot(ctx)
	}
	return s.ingredients.SnapshotTx(ctx, tx)
}

func (s *reconcileService) productFor(ctx context.Context, tx *gorm.DB, name string) (*model.Product, error) {
	if tx == nil {
		return s.products.FindByName(ctx, name)
	}
	return s.products.FindByNameTx(ctx, tx, name)
}

// enqueueSideChannels dispatches the post-commit report job and low-stock
// alerts. Best-effort, fire and forget: the batch is already durable, a lost
// job only costs a PDF or an email.
func (s *reconcileService) enqueueSideChannels(ctx context.Context, batchID uuid.UUID, saleDate string, pv *dto.PreviewResponse, snap map[uuid.UUID]*model.Ingredient, totals map[uuid.UUID]decimal.Decimal) {
	if s.dispatcher == nil {
		return
	}

	_ = s.dispatcher.EnqueueReport(ctx, worker.ReportPayload{
		BatchID:        batchID.String(),
		SaleDate:       saleDate,
		SalesProcessed: len(pv.Matched),
		SalesSkipped:   len(pv.Unmatched),
		TotalRevenue:   pv.Totals.Revenue.StringFixed(2),
		TotalCost:      pv.Totals.Cost.StringFixed(2),
		TotalProfit:    pv.Totals.Profit.StringFixed(2),
	})

	var low []worker.AlertIngredient
	for id, total := range totals {
		ing := snap[id]
		after := ing.QuantityOnHand.Sub(total)
		if after.LessThan(ing.MinQuantity) {
			low = append(low, worker.AlertIngredient{
				Name:      ing.Name,
				Unit:      ing.Unit,
				Remaining: after.String(),
				Minimum:   ing.MinQuantity.String(),
			})
		}
	}
	if len(low) > 0 {
		sort.Slice(low, func(i, j int) bool { return low[i].Name < low[j].Name })
		_ = s.dispatcher.EnqueueAlert(ctx, worker.AlertPayload{
			BatchID:     batchID.String(),
			Ingredients: low,
		})
	}
}
