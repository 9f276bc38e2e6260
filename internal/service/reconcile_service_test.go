package service

import (
	"context"
	"fmt"
	"testing"

	"savoria/internal/dto"
	"savoria/internal/model"
	"savoria/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ────────────────────────────────────────────────────────────────────

type stubIngredientRepo struct {
	store      map[uuid.UUID]*model.Ingredient
	failDeduct map[uuid.UUID]error
}

var _ repository.IngredientRepository = (*stubIngredientRepo)(nil)

func (s *stubIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := s.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ing, nil
}

func (s *stubIngredientRepo) List(context.Context, dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	return nil, 0, nil
}

// Snapshot deep-copies the store so stock mutations applied through
// DeductStockTx never alias a snapshot a caller is still holding.
func (s *stubIngredientRepo) Snapshot(context.Context) (map[uuid.UUID]*model.Ingredient, error) {
	snap := make(map[uuid.UUID]*model.Ingredient, len(s.store))
	for id, ing := range s.store {
		cp := *ing
		cp.BOMLines = append([]model.BOMLine(nil), ing.BOMLines...)
		snap[id] = &cp
	}
	return snap, nil
}

func (s *stubIngredientRepo) SnapshotTx(ctx context.Context, _ *gorm.DB) (map[uuid.UUID]*model.Ingredient, error) {
	return s.Snapshot(ctx)
}

func (s *stubIngredientRepo) DeductStockTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	if err, ok := s.failDeduct[id]; ok {
		return err
	}
	ing, ok := s.store[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ing.QuantityOnHand = ing.QuantityOnHand.Sub(amount)
	return nil
}

func (s *stubIngredientRepo) DB() *gorm.DB { return nil }

type stubProductRepo struct {
	store   map[string]*model.Product
	txCalls int
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

func (s *stubProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	p, ok := s.store[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProductRepo) FindByNameTx(ctx context.Context, _ *gorm.DB, name string) (*model.Product, error) {
	s.txCalls++
	return s.FindByName(ctx, name)
}

func (s *stubProductRepo) List(context.Context) ([]model.Product, error) { return nil, nil }

type stubHistoryRepo struct {
	rows []model.SaleHistory
}

var _ repository.SaleHistoryRepository = (*stubHistoryRepo)(nil)

func (s *stubHistoryRepo) CreateTx(_ *gorm.DB, row *model.SaleHistory) error {
	s.rows = append(s.rows, *row)
	return nil
}

func (s *stubHistoryRepo) List(context.Context, dto.HistoryFilter) ([]model.SaleHistory, int64, error) {
	return nil, 0, nil
}

func (s *stubHistoryRepo) ListByBatchID(context.Context, uuid.UUID) ([]model.SaleHistory, error) {
	return nil, nil
}

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (s *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	s.movements = append(s.movements, *m)
	return nil
}

func (s *stubMovementRepo) ListByIngredient(context.Context, uuid.UUID, int) ([]model.StockMovement, error) {
	return nil, nil
}

type stubAuditRepo struct {
	events []model.AuditEvent
}

var _ repository.AuditRepository = (*stubAuditRepo)(nil)

func (s *stubAuditRepo) CreateTx(_ *gorm.DB, e *model.AuditEvent) error {
	s.events = append(s.events, *e)
	return nil
}

func (s *stubAuditRepo) FindByBatchID(context.Context, uuid.UUID) (*model.AuditEvent, error) {
	return nil, gorm.ErrRecordNotFound
}

// ── Fixture ──────────────────────────────────────────────────────────────────

// Fixed ids keep the commit write order predictable: cheese sorts first.
var (
	cheeseID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	doughID    = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	tomatoesID = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	basilID    = uuid.MustParse("00000000-0000-0000-0000-000000000004")
	sauceID    = uuid.MustParse("00000000-0000-0000-0000-000000000005")
)

type fixture struct {
	ingredients *stubIngredientRepo
	products    *stubProductRepo
	history     *stubHistoryRepo
	movements   *stubMovementRepo
	audit       *stubAuditRepo
	svc         ReconcileService
}

// newFixture builds a small pizzeria: four base ingredients, a composite
// sauce (one 20 lb batch = 10 lb tomatoes + 2 lb basil) and one product.
// Selling 10 pizzas deducts 5 cheese, 3 dough, 1 tomatoes, 0.2 basil and
// costs 33.60.
func newFixture() *fixture {
	fixed := func(id uuid.UUID, name, unit, onHand, cost, minQty string) *model.Ingredient {
		return &model.Ingredient{
			ID:             id,
			Name:           name,
			Unit:           unit,
			QuantityOnHand: dec(onHand),
			UnitCost:       dec(cost),
			MinQuantity:    dec(minQty),
			BatchSize:      decimal.NewFromInt(1),
			Active:         true,
		}
	}

	cheese := fixed(cheeseID, "Cheese", "lb", "40", "5", "10")
	dough := fixed(doughID, "Dough", "lb", "30", "2", "5")
	tomatoes := fixed(tomatoesID, "Tomatoes", "lb", "50", "1", "10")
	basil := fixed(basilID, "Basil", "lb", "5", "8", "1")
	sauce := &model.Ingredient{
		ID:          sauceID,
		Name:        "Pizza Sauce",
		Unit:        "lb",
		IsComposite: true,
		BatchSize:   dec("20"),
		Active:      true,
		BOMLines: []model.BOMLine{
			{CompositeID: sauceID, IngredientID: tomatoesID, QuantityPerBatch: dec("10")},
			{CompositeID: sauceID, IngredientID: basilID, QuantityPerBatch: dec("2")},
		},
	}

	pizza := &model.Product{
		ID:           uuid.New(),
		Name:         "Pizza",
		SellingPrice: dec("12.99"),
		Active:       true,
		Recipe: []model.RecipeLine{
			{IngredientID: cheeseID, QuantityNeeded: dec("0.5"), Unit: "lb"},
			{IngredientID: doughID, QuantityNeeded: dec("0.3"), Unit: "lb"},
			{IngredientID: sauceID, QuantityNeeded: dec("0.2"), Unit: "lb"},
		},
	}

	f := &fixture{
		ingredients: &stubIngredientRepo{store: map[uuid.UUID]*model.Ingredient{
			cheeseID: cheese, doughID: dough, tomatoesID: tomatoes, basilID: basil, sauceID: sauce,
		}},
		products:  &stubProductRepo{store: map[string]*model.Product{"Pizza": pizza}},
		history:   &stubHistoryRepo{},
		movements: &stubMovementRepo{},
		audit:     &stubAuditRepo{},
	}
	f.svc = NewReconcileService(f.ingredients, f.products, f.history, f.movements, f.audit, nil, nil)
	return f
}

func (f *fixture) onHand(id uuid.UUID) decimal.Decimal {
	return f.ingredients.store[id].QuantityOnHand
}

func pizzaRecords(qty string) []dto.SaleRecord {
	return []dto.SaleRecord{{ProductName: "Pizza", Quantity: dec(qty)}}
}

// ── Preview ──────────────────────────────────────────────────────────────────

func TestPreview_WorkedExample(t *testing.T) {
	f := newFixture()

	pv, err := f.svc.Preview(context.Background(), dto.PreviewRequest{
		SaleDate: "2026-08-31",
		Records:  pizzaRecords("10"),
	})
	require.NoError(t, err)

	require.Len(t, pv.Matched, 1)
	require.Empty(t, pv.Unmatched)
	require.Empty(t, pv.Warnings)

	sale := pv.Matched[0]
	assert.Equal(t, "Pizza", sale.ProductName)
	assert.True(t, sale.Cost.Equal(dec("33.60")), "got %s", sale.Cost)
	assert.True(t, sale.Revenue.Equal(dec("129.90")), "got %s", sale.Revenue)
	assert.True(t, sale.Profit.Equal(dec("96.30")), "got %s", sale.Profit)

	require.Len(t, sale.Ingredients, 4, "sauce must be expanded into its base components")
	byName := map[string]dto.DeductionLine{}
	for _, line := range sale.Ingredients {
		byName[line.IngredientName] = line
	}
	assert.True(t, byName["Cheese"].Deduction.Equal(dec("5")))
	assert.True(t, byName["Dough"].Deduction.Equal(dec("3")))
	assert.True(t, byName["Tomatoes"].Deduction.Equal(dec("1")))
	assert.True(t, byName["Basil"].Deduction.Equal(dec("0.2")))
	assert.True(t, byName["Cheese"].NewQty.Equal(dec("35")))

	assert.True(t, pv.Totals.Revenue.Equal(dec("129.90")))
	assert.True(t, pv.Totals.Cost.Equal(dec("33.60")))
	assert.True(t, pv.Totals.Profit.Equal(dec("96.30")))
}

func TestPreview_Deterministic(t *testing.T) {
	f := newFixture()
	req := dto.PreviewRequest{SaleDate: "2026-08-31", Records: pizzaRecords("10")}

	first, err := f.svc.Preview(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Preview(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first, second, "same input against same state must produce identical previews")
}

func TestPreview_DoesNotMutate(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Preview(context.Background(), dto.PreviewRequest{
		SaleDate: "2026-08-31",
		Records:  pizzaRecords("10"),
	})
	require.NoError(t, err)

	assert.True(t, f.onHand(cheeseID).Equal(dec("40")))
	assert.True(t, f.onHand(doughID).Equal(dec("30")))
	assert.Empty(t, f.history.rows)
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.audit.events)
}

func TestPreview_PerRecordIsolation(t *testing.T) {
	f := newFixture()

	pv, err := f.svc.Preview(context.Background(), dto.PreviewRequest{
		SaleDate: "2026-08-31",
		Records: []dto.SaleRecord{
			{ProductName: "Pizza", Quantity: dec("2")},
			{ProductName: "Burger", Quantity: dec("3")},
			{ProductName: "Pizza", Quantity: dec("-1")},
			{ProductName: "  ", Quantity: dec("1")},
		},
	})
	require.NoError(t, err)

	require.Len(t, pv.Matched, 1, "one bad record must not sink the batch")
	require.Len(t, pv.Unmatched, 3)

	reasons := map[string]string{}
	for _, u := range pv.Unmatched {
		reasons[u.Reason] = u.ProductName
	}
	assert.Contains(t, reasons, "Product not found")
	assert.Contains(t, reasons, "Quantity must be positive")
	assert.Contains(t, reasons, "Product name is empty")
}

func TestPreview_MatchIsCaseSensitive(t *testing.T) {
	f := newFixture()

	pv, err := f.svc.Preview(context.Background(), dto.PreviewRequest{
		SaleDate: "2026-08-31",
		Records:  []dto.SaleRecord{{ProductName: "pizza", Quantity: dec("1")}},
	})
	require.NoError(t, err)

	require.Empty(t, pv.Matched)
	require.Len(t, pv.Unmatched, 1)
	assert.Equal(t, "Product not found", pv.Unmatched[0].Reason)
}

func TestPreview_InsufficientStockIsWarningNotError(t *testing.T) {
	f := newFixture()

	// 100 pizzas need 50 lb cheese against 40 on hand.
	pv, err := f.svc.Preview(context.Background(), dto.PreviewRequest{
		SaleDate: "2026-08-31",
		Records:  pizzaRecords("100"),
	})
	require.NoError(t, err)

	require.Len(t, pv.Matched, 1, "a shortfall must not unmatch the sale")
	require.NotEmpty(t, pv.Warnings)
	assert.Contains(t, pv.Warnings[0], "Insufficient stock for Cheese")
	assert.Contains(t, pv.Warnings[0], "need 50 lb, have 40 lb")
}

// ── Commit ───────────────────────────────────────────────────────────────────

func TestCommit_AppliesBatch(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Commit(context.Background(), dto.CommitRequest{
		SaleDate: "2026-08-31",
		SaleTime: "21:30",
		Records:  pizzaRecords("10"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 1, resp.SalesProcessed)
	assert.Empty(t, resp.Skipped)
	assert.True(t, resp.TotalRevenue.Equal(dec("129.90")))
	assert.True(t, resp.TotalCost.Equal(dec("33.60")))
	assert.True(t, resp.TotalProfit.Equal(dec("96.30")))

	// Stock moved.
	assert.True(t, f.onHand(cheeseID).Equal(dec("35")))
	assert.True(t, f.onHand(doughID).Equal(dec("27")))
	assert.True(t, f.onHand(tomatoesID).Equal(dec("49")))
	assert.True(t, f.onHand(basilID).Equal(dec("4.8")))

	// One movement per affected base ingredient, tagged with the batch.
	require.Len(t, f.movements.movements, 4)
	for _, m := range f.movements.movements {
		assert.Equal(t, "sale_deduction", m.Type)
		assert.True(t, m.Quantity.IsNegative())
		assert.True(t, m.QtyBefore.Sub(m.QtyAfter).Equal(m.Quantity.Neg()))
		require.NotNil(t, m.BatchID)
		assert.Equal(t, resp.BatchID, m.BatchID.String())
	}

	// History row carries the priced sale.
	require.Len(t, f.history.rows, 1)
	row := f.history.rows[0]
	assert.Equal(t, "2026-08-31", row.SaleDate)
	assert.Equal(t, "21:30", row.SaleTime)
	assert.Equal(t, "Pizza", row.ProductName)
	assert.True(t, row.Profit.Equal(dec("96.30")))
	assert.Equal(t, resp.BatchID, row.BatchID.String())

	// One audit event for the batch.
	require.Len(t, f.audit.events, 1)
	event := f.audit.events[0]
	assert.Equal(t, 1, event.SalesProcessed)
	assert.Equal(t, 0, event.SalesSkipped)
	assert.True(t, event.TotalRevenue.Equal(dec("129.90")))
}

func TestCommit_AggregatesSharedIngredients(t *testing.T) {
	f := newFixture()

	// Two records of the same product collapse into one stock update per
	// ingredient, not two.
	resp, err := f.svc.Commit(context.Background(), dto.CommitRequest{
		SaleDate: "2026-08-31",
		SaleTime: "21:30",
		Records: []dto.SaleRecord{
			{ProductName: "Pizza", Quantity: dec("4")},
			{ProductName: "Pizza", Quantity: dec("6")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SalesProcessed)

	require.Len(t, f.movements.movements, 4, "shared ingredients must be netted before writing")
	assert.True(t, f.onHand(cheeseID).Equal(dec("35")))

	for _, m := range f.movements.movements {
		if m.IngredientID == cheeseID {
			assert.True(t, m.Quantity.Equal(dec("-5")))
			assert.True(t, m.QtyBefore.Equal(dec("40")))
			assert.True(t, m.QtyAfter.Equal(dec("35")))
		}
	}

	require.Len(t, f.history.rows, 2, "history stays per sale even when deductions are netted")
}

func TestCommit_SkippedRecordsNotWritten(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Commit(context.Background(), dto.CommitRequest{
		SaleDate: "2026-08-31",
		SaleTime: "21:30",
		Records: []dto.SaleRecord{
			{ProductName: "Pizza", Quantity: dec("2")},
			{ProductName: "Burger", Quantity: dec("1")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SalesProcessed)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "Burger", resp.Skipped[0].ProductName)

	require.Len(t, f.history.rows, 1)
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, 1, f.audit.events[0].SalesSkipped)
}

func TestCommit_NotIdempotent(t *testing.T) {
	f := newFixture()
	req := dto.CommitRequest{SaleDate: "2026-08-31", SaleTime: "21:30", Records: pizzaRecords("10")}

	first, err := f.svc.Commit(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Commit(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.BatchID, second.BatchID)
	assert.True(t, f.onHand(cheeseID).Equal(dec("30")), "resubmission deducts again, no dedup")
	assert.Len(t, f.history.rows, 2)
	assert.Len(t, f.audit.events, 2)
}

func TestCommit_NothingAppliedOnFailure(t *testing.T) {
	f := newFixture()
	// Cheese carries the lowest id, so it is the first write of the batch.
	// Failing it proves the batch aborts before any observable effect.
	f.ingredients.failDeduct = map[uuid.UUID]error{cheeseID: fmt.Errorf("connection reset")}

	_, err := f.svc.Commit(context.Background(), dto.CommitRequest{
		SaleDate: "2026-08-31",
		SaleTime: "21:30",
		Records:  pizzaRecords("10"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing was applied")

	assert.True(t, f.onHand(cheeseID).Equal(dec("40")))
	assert.True(t, f.onHand(doughID).Equal(dec("30")))
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.history.rows)
	assert.Empty(t, f.audit.events)
}

func TestBuildPreview_UsesTransactionForProductReads(t *testing.T) {
	f := newFixture()
	svc := f.svc.(*reconcileService)

	snap, err := f.ingredients.Snapshot(context.Background())
	require.NoError(t, err)

	// Without a transaction the plain lookup is used.
	svc.buildPreview(context.Background(), nil, pizzaRecords("1"), snap)
	assert.Equal(t, 0, f.products.txCalls)

	// With an open transaction every catalog read goes through it.
	svc.buildPreview(context.Background(), &gorm.DB{}, pizzaRecords("1"), snap)
	assert.Equal(t, 1, f.products.txCalls)
}

func TestCommit_AllRecordsSkipped(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Commit(context.Background(), dto.CommitRequest{
		SaleDate: "2026-08-31",
		SaleTime: "21:30",
		Records:  []dto.SaleRecord{{ProductName: "Burger", Quantity: dec("1")}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.SalesProcessed)
	require.Len(t, resp.Skipped, 1)
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.history.rows)
	require.Len(t, f.audit.events, 1, "an empty batch still leaves an audit trail")
	assert.Equal(t, 0, f.audit.events[0].SalesProcessed)
}
