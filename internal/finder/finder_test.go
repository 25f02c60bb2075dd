package finder

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/pkg/errors"

	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/testutil"
)

func TestItemFinder_SubstringMatch(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	merchant := testutil.SeedMerchant(t, db, "Pro Shop")
	golf := testutil.SeedItem(t, db, merchant.ID, "Golf club", "for hitting golf balls", 120.00)
	soda := testutil.SeedItem(t, db, merchant.ID, "Club Soda", "a refreshing drink", 2.50)
	testutil.SeedItem(t, db, merchant.ID, "Tennis racket", "for tennis", 80.00)

	f := NewItemFinder(db)

	t.Run("multi returns every case-insensitive substring match", func(t *testing.T) {
		items, err := f.Multi(ctx, "name", "club")
		if err != nil {
			t.Fatalf("Multi: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(items))
		}
		if items[0].ID != golf.ID || items[1].ID != soda.ID {
			t.Errorf("expected id-ascending order [%d %d], got [%d %d]",
				golf.ID, soda.ID, items[0].ID, items[1].ID)
		}
	})

	t.Run("single is multi's first result", func(t *testing.T) {
		item, err := f.Single(ctx, "name", "CLUB")
		if err != nil {
			t.Fatalf("Single: %v", err)
		}
		if item == nil {
			t.Fatal("expected a match")
		}
		if item.ID != golf.ID {
			t.Errorf("expected item %d, got %d", golf.ID, item.ID)
		}
	})

	t.Run("description is searchable", func(t *testing.T) {
		items, err := f.Multi(ctx, "description", "refreshing")
		if err != nil {
			t.Fatalf("Multi: %v", err)
		}
		if len(items) != 1 || items[0].ID != soda.ID {
			t.Fatalf("expected only the soda, got %d matches", len(items))
		}
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		item, err := f.Single(ctx, "name", "xylophone")
		if err != nil {
			t.Fatalf("Single: %v", err)
		}
		if item != nil {
			t.Errorf("expected nil, got item %d", item.ID)
		}
		items, err := f.Multi(ctx, "name", "xylophone")
		if err != nil {
			t.Fatalf("Multi: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected empty set, got %d", len(items))
		}
	})
}

func TestItemFinder_ExactMatch(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	m1 := testutil.SeedMerchant(t, db, "First")
	m2 := testutil.SeedMerchant(t, db, "Second")
	cheap := testutil.SeedItem(t, db, m1.ID, "Pencil", "writes", 1.50)
	testutil.SeedItem(t, db, m2.ID, "Pen", "also writes", 3.00)

	f := NewItemFinder(db)

	items, err := f.Multi(ctx, "merchant_id", strconv.FormatInt(m1.ID, 10))
	if err != nil {
		t.Fatalf("Multi by merchant_id: %v", err)
	}
	if len(items) != 1 || items[0].ID != cheap.ID {
		t.Fatalf("expected only the first merchant's item, got %d matches", len(items))
	}

	item, err := f.Single(ctx, "unit_price", "1.50")
	if err != nil {
		t.Fatalf("Single by unit_price: %v", err)
	}
	if item == nil || item.ID != cheap.ID {
		t.Fatal("expected the pencil by exact price")
	}
}

func TestFinder_InvalidQueries(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	f := NewItemFinder(db)

	cases := []struct {
		name  string
		field string
		value string
	}{
		{"unrecognized field", "colour", "red"},
		{"non-numeric id", "id", "abc"},
		{"non-numeric unit_price", "unit_price", "cheap"},
		{"non-numeric merchant_id", "merchant_id", "x"},
		{"malformed timestamp", "created_at", "not-a-date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.Single(ctx, tc.field, tc.value); !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("Single(%q, %q): expected ErrInvalidQuery, got %v", tc.field, tc.value, err)
			}
			if _, err := f.Multi(ctx, tc.field, tc.value); !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("Multi(%q, %q): expected ErrInvalidQuery, got %v", tc.field, tc.value, err)
			}
		})
	}
}

func TestMerchantFinder(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()

	king := testutil.SeedMerchant(t, db, "King's shopper")
	kiosk := testutil.SeedMerchant(t, db, "Quiosquito de kingsito")
	queen := testutil.SeedMerchant(t, db, "Queen's shopper")
	queenB := testutil.SeedMerchant(t, db, "Queen B's")
	laQueen := testutil.SeedMerchant(t, db, "La Queen")

	f := NewMerchantFinder(db)

	t.Run("single matches case-insensitively", func(t *testing.T) {
		for _, value := range []string{"King", "kInG"} {
			m, err := f.Single(ctx, "name", value)
			if err != nil {
				t.Fatalf("Single(%q): %v", value, err)
			}
			if m == nil || m.ID != king.ID {
				t.Errorf("Single(%q): expected merchant %d", value, king.ID)
			}
		}
	})

	t.Run("multi returns the full match set", func(t *testing.T) {
		merchants, err := f.Multi(ctx, "name", "queen")
		if err != nil {
			t.Fatalf("Multi: %v", err)
		}
		if len(merchants) != 3 {
			t.Fatalf("expected 3 queens, got %d", len(merchants))
		}
		want := []int64{queen.ID, queenB.ID, laQueen.ID}
		for i, m := range merchants {
			if m.ID != want[i] {
				t.Errorf("result[%d]: expected merchant %d, got %d", i, want[i], m.ID)
			}
		}

		merchants, err = f.Multi(ctx, "name", "king")
		if err != nil {
			t.Fatalf("Multi: %v", err)
		}
		if len(merchants) != 2 {
			t.Fatalf("expected 2 kings, got %d", len(merchants))
		}
		if merchants[0].ID != king.ID || merchants[1].ID != kiosk.ID {
			t.Errorf("unexpected king set: %d, %d", merchants[0].ID, merchants[1].ID)
		}
	})
}

func TestPickParam_PriorityOrder(t *testing.T) {
	itemF := NewItemFinder(nil)
	merchF := NewMerchantFinder(nil)

	t.Run("name outranks description", func(t *testing.T) {
		field, value, err := itemF.PickParam(url.Values{
			"description": {"shiny"},
			"name":        {"club"},
			"per_page":    {"50"},
		})
		if err != nil {
			t.Fatalf("PickParam: %v", err)
		}
		if field != "name" || value != "club" {
			t.Errorf("expected name=club, got %s=%s", field, value)
		}
	})

	t.Run("unrecognized params only", func(t *testing.T) {
		if _, _, err := merchF.PickParam(url.Values{"colour": {"red"}}); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("merchant id recognized", func(t *testing.T) {
		field, value, err := merchF.PickParam(url.Values{"id": {"7"}})
		if err != nil {
			t.Fatalf("PickParam: %v", err)
		}
		if field != "id" || value != "7" {
			t.Errorf("expected id=7, got %s=%s", field, value)
		}
	})
}
