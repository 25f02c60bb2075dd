package bi

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/testutil"
)

func TestTopMerchantsByRevenue(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m1 := testutil.SeedMerchant(t, db, "one")
	m2 := testutil.SeedMerchant(t, db, "two")
	m3 := testutil.SeedMerchant(t, db, "three")

	testutil.SeedSale(t, db, m1, domain.InvoiceStatusShipped, domain.TransactionSuccess, 1, 1.0)
	inv2 := testutil.SeedSale(t, db, m2, domain.InvoiceStatusShipped, domain.TransactionSuccess, 2, 2.0)
	inv3 := testutil.SeedSale(t, db, m3, domain.InvoiceStatusShipped, domain.TransactionSuccess, 3, 3.0)

	agg := NewAggregator(db)

	t.Run("ranks by summed revenue descending", func(t *testing.T) {
		stats, err := agg.TopMerchantsByRevenue(ctx, 3)
		if err != nil {
			t.Fatalf("TopMerchantsByRevenue: %v", err)
		}
		if len(stats) != 3 {
			t.Fatalf("expected 3 merchants, got %d", len(stats))
		}
		wantIDs := []int64{m3.ID, m2.ID, m1.ID}
		wantRevenue := []float64{9.0, 4.0, 1.0}
		for i := range stats {
			if stats[i].ID != wantIDs[i] {
				t.Errorf("rank %d: expected merchant %d, got %d", i, wantIDs[i], stats[i].ID)
			}
			if stats[i].Revenue != wantRevenue[i] {
				t.Errorf("rank %d: expected revenue %v, got %v", i, wantRevenue[i], stats[i].Revenue)
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		stats, err := agg.TopMerchantsByRevenue(ctx, 1)
		if err != nil {
			t.Fatalf("TopMerchantsByRevenue: %v", err)
		}
		if len(stats) != 1 || stats[0].ID != m3.ID {
			t.Fatalf("expected only merchant %d, got %+v", m3.ID, stats)
		}
	})

	t.Run("limit zero yields empty result", func(t *testing.T) {
		stats, err := agg.TopMerchantsByRevenue(ctx, 0)
		if err != nil {
			t.Fatalf("TopMerchantsByRevenue: %v", err)
		}
		if len(stats) != 0 {
			t.Fatalf("expected empty, got %d rows", len(stats))
		}
	})

	t.Run("negative limit is an invalid query", func(t *testing.T) {
		if _, err := agg.TopMerchantsByRevenue(ctx, -1); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("failed transaction excludes the sale", func(t *testing.T) {
		if err := db.Model(&domain.Transaction{}).
			Where("invoice_id = ?", inv3.ID).
			Update("result", domain.TransactionFailed).Error; err != nil {
			t.Fatalf("update transaction: %v", err)
		}
		stats, err := agg.TopMerchantsByRevenue(ctx, 3)
		if err != nil {
			t.Fatalf("TopMerchantsByRevenue: %v", err)
		}
		if len(stats) != 2 || stats[0].ID != m2.ID {
			t.Fatalf("expected merchant %d on top without merchant %d, got %+v", m2.ID, m3.ID, stats)
		}
	})

	t.Run("unshipped invoice excludes the sale", func(t *testing.T) {
		if err := db.Model(&domain.Invoice{}).
			Where("id = ?", inv2.ID).
			Update("status", domain.InvoiceStatusPackaged).Error; err != nil {
			t.Fatalf("update invoice: %v", err)
		}
		stats, err := agg.TopMerchantsByRevenue(ctx, 3)
		if err != nil {
			t.Fatalf("TopMerchantsByRevenue: %v", err)
		}
		if len(stats) != 1 || stats[0].ID != m1.ID {
			t.Fatalf("expected only merchant %d, got %+v", m1.ID, stats)
		}
	})
}

func TestTopMerchantsByRevenue_TiesBreakByID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	a := testutil.SeedMerchant(t, db, "alpha")
	b := testutil.SeedMerchant(t, db, "beta")
	testutil.SeedSale(t, db, b, domain.InvoiceStatusShipped, domain.TransactionSuccess, 2, 5.0)
	testutil.SeedSale(t, db, a, domain.InvoiceStatusShipped, domain.TransactionSuccess, 5, 2.0)

	stats, err := NewAggregator(db).TopMerchantsByRevenue(ctx, 2)
	if err != nil {
		t.Fatalf("TopMerchantsByRevenue: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].ID != a.ID || stats[1].ID != b.ID {
		t.Errorf("equal revenue should order by id ascending, got [%d %d]", stats[0].ID, stats[1].ID)
	}
}

func TestTopMerchantsByItemsSold(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m1 := testutil.SeedMerchant(t, db, "one")
	m2 := testutil.SeedMerchant(t, db, "two")

	// m1 moves more units at a lower price, m2 earns more revenue.
	testutil.SeedSale(t, db, m1, domain.InvoiceStatusShipped, domain.TransactionSuccess, 10, 1.0)
	testutil.SeedSale(t, db, m2, domain.InvoiceStatusShipped, domain.TransactionSuccess, 2, 50.0)

	agg := NewAggregator(db)

	stats, err := agg.TopMerchantsByItemsSold(ctx, 2)
	if err != nil {
		t.Fatalf("TopMerchantsByItemsSold: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].ID != m1.ID || stats[0].ItemsSold != 10 {
		t.Errorf("expected merchant %d with 10 items on top, got %+v", m1.ID, stats[0])
	}

	byRevenue, err := agg.TopMerchantsByRevenue(ctx, 2)
	if err != nil {
		t.Fatalf("TopMerchantsByRevenue: %v", err)
	}
	if byRevenue[0].ID != m2.ID {
		t.Errorf("expected merchant %d on top by revenue, got %d", m2.ID, byRevenue[0].ID)
	}
}

func TestAggregator_TransactionMultiplicity(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m := testutil.SeedMerchant(t, db, "retrier")
	item := testutil.SeedItem(t, db, m.ID, "widget", "", 10.0)
	inv := testutil.SeedInvoice(t, db, m.ID, domain.InvoiceStatusShipped, time.Time{})
	testutil.SeedInvoiceItem(t, db, item.ID, inv.ID, 1, 10.0)

	// One failed attempt followed by two successful ones. The line item
	// must still be counted exactly once.
	testutil.SeedTransaction(t, db, inv.ID, domain.TransactionFailed)
	testutil.SeedTransaction(t, db, inv.ID, domain.TransactionSuccess)
	testutil.SeedTransaction(t, db, inv.ID, domain.TransactionSuccess)

	revenue, err := NewAggregator(db).RevenueForMerchant(ctx, m.ID)
	if err != nil {
		t.Fatalf("RevenueForMerchant: %v", err)
	}
	if revenue != 10.0 {
		t.Errorf("expected revenue 10.0 counted once, got %v", revenue)
	}
}

func TestRevenueOverRange(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m := testutil.SeedMerchant(t, db, "seasonal")
	item := testutil.SeedItem(t, db, m.ID, "widget", "", 5.0)

	day := func(d int) time.Time {
		return time.Date(2020, time.October, d, 14, 30, 0, 0, time.UTC)
	}
	for _, d := range []int{1, 10, 20} {
		inv := testutil.SeedInvoice(t, db, m.ID, domain.InvoiceStatusShipped, day(d))
		testutil.SeedInvoiceItem(t, db, item.ID, inv.ID, 1, 5.0)
		testutil.SeedTransaction(t, db, inv.ID, domain.TransactionSuccess)
	}

	agg := NewAggregator(db)

	t.Run("inclusive day boundaries", func(t *testing.T) {
		revenue, err := agg.RevenueOverRange(ctx, day(1), day(10))
		if err != nil {
			t.Fatalf("RevenueOverRange: %v", err)
		}
		if revenue != 10.0 {
			t.Errorf("expected 10.0, got %v", revenue)
		}
	})

	t.Run("widening the range never decreases the sum", func(t *testing.T) {
		narrow, err := agg.RevenueOverRange(ctx, day(10), day(10))
		if err != nil {
			t.Fatalf("RevenueOverRange: %v", err)
		}
		wide, err := agg.RevenueOverRange(ctx, day(1), day(20))
		if err != nil {
			t.Fatalf("RevenueOverRange: %v", err)
		}
		if wide < narrow {
			t.Errorf("widened range sum %v < narrow sum %v", wide, narrow)
		}
		if wide != 15.0 {
			t.Errorf("expected full-range sum 15.0, got %v", wide)
		}
	})

	t.Run("empty range sums to zero", func(t *testing.T) {
		revenue, err := agg.RevenueOverRange(ctx, day(25), day(28))
		if err != nil {
			t.Fatalf("RevenueOverRange: %v", err)
		}
		if revenue != 0.0 {
			t.Errorf("expected 0.0, got %v", revenue)
		}
	})

	t.Run("inverted range is an invalid query", func(t *testing.T) {
		if _, err := agg.RevenueOverRange(ctx, day(10), day(1)); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("same day normalizes to full day", func(t *testing.T) {
		morning := time.Date(2020, time.October, 10, 1, 0, 0, 0, time.UTC)
		evening := time.Date(2020, time.October, 10, 23, 0, 0, 0, time.UTC)
		revenue, err := agg.RevenueOverRange(ctx, evening, morning)
		if err != nil {
			t.Fatalf("RevenueOverRange: %v", err)
		}
		if revenue != 5.0 {
			t.Errorf("expected 5.0 for the single day, got %v", revenue)
		}
	})
}

func TestRevenueForMerchant(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m := testutil.SeedMerchant(t, db, "solo")
	testutil.SeedSale(t, db, m, domain.InvoiceStatusShipped, domain.TransactionSuccess, 1, 1.0)
	idle := testutil.SeedMerchant(t, db, "idle")

	agg := NewAggregator(db)

	t.Run("one shipped successful unit sale", func(t *testing.T) {
		revenue, err := agg.RevenueForMerchant(ctx, m.ID)
		if err != nil {
			t.Fatalf("RevenueForMerchant: %v", err)
		}
		if revenue != 1.0 {
			t.Errorf("expected 1.0, got %v", revenue)
		}
	})

	t.Run("merchant without valid sales earns zero", func(t *testing.T) {
		revenue, err := agg.RevenueForMerchant(ctx, idle.ID)
		if err != nil {
			t.Fatalf("RevenueForMerchant: %v", err)
		}
		if revenue != 0.0 {
			t.Errorf("expected 0.0, got %v", revenue)
		}
	})

	t.Run("unknown merchant is not found", func(t *testing.T) {
		if _, err := agg.RevenueForMerchant(ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
