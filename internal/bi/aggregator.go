// Package bi computes merchant revenue and ranking statistics over the
// valid-sale join: merchants, their shipped invoices, the invoice line
// items, and payment transactions.
//
// A sale counts when the invoice status is "shipped" and the invoice
// has at least one successful transaction. The transaction check is an
// EXISTS semi-join so a line item is summed exactly once no matter how
// many payment attempts the invoice carries. Sums run inside the
// database (numeric columns on postgres), so monetary arithmetic is not
// subject to float64 accumulation error.
package bi

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/domain"
)

// MerchantStat is one row of a merchant ranking. Revenue is populated
// by the revenue ranking, ItemsSold by the items ranking.
type MerchantStat struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	ItemsSold int64   `json:"items_sold"`
}

// Aggregator computes merchant ranking and revenue figures. It holds
// no state beyond the database handle; every method is a single read.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// validSales scopes a query to invoice line items of valid sales,
// joined with their merchant.
func (a *Aggregator) validSales(ctx context.Context) *gorm.DB {
	return a.db.WithContext(ctx).
		Table("merchants").
		Joins("JOIN invoices ON invoices.merchant_id = merchants.id").
		Joins("JOIN invoice_items ON invoice_items.invoice_id = invoices.id").
		Where("invoices.status = ?", domain.InvoiceStatusShipped).
		Where("EXISTS (SELECT 1 FROM transactions WHERE transactions.invoice_id = invoices.id AND transactions.result = ?)",
			domain.TransactionSuccess)
}

// TopMerchantsByRevenue returns up to limit merchants ranked by summed
// valid-sale revenue, descending, ties broken by merchant id ascending.
// Merchants without a single valid sale never appear.
func (a *Aggregator) TopMerchantsByRevenue(ctx context.Context, limit int) ([]MerchantStat, error) {
	if limit < 0 {
		return nil, errors.Wrapf(domain.ErrInvalidQuery, "negative limit %d", limit)
	}
	stats := make([]MerchantStat, 0, limit)
	if limit == 0 {
		return stats, nil
	}
	err := a.validSales(ctx).
		Select("merchants.id AS id, merchants.name AS name, SUM(invoice_items.quantity * invoice_items.unit_price) AS revenue").
		Group("merchants.id, merchants.name").
		Order("revenue DESC, merchants.id ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, storeErr(err, "rank merchants by revenue")
	}
	return stats, nil
}

// TopMerchantsByItemsSold returns up to limit merchants ranked by total
// quantity sold across valid sales; same ordering and limit rules as
// TopMerchantsByRevenue.
func (a *Aggregator) TopMerchantsByItemsSold(ctx context.Context, limit int) ([]MerchantStat, error) {
	if limit < 0 {
		return nil, errors.Wrapf(domain.ErrInvalidQuery, "negative limit %d", limit)
	}
	stats := make([]MerchantStat, 0, limit)
	if limit == 0 {
		return stats, nil
	}
	err := a.validSales(ctx).
		Select("merchants.id AS id, merchants.name AS name, SUM(invoice_items.quantity) AS items_sold").
		Group("merchants.id, merchants.name").
		Order("items_sold DESC, merchants.id ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, storeErr(err, "rank merchants by items sold")
	}
	return stats, nil
}

// RevenueOverRange sums valid-sale revenue across all merchants for
// invoices created within [startOfDay(start), endOfDay(end)]. The
// inputs are calendar dates; time of day is normalized away before
// comparison. An inverted range is rejected rather than silently
// returning zero.
func (a *Aggregator) RevenueOverRange(ctx context.Context, start, end time.Time) (float64, error) {
	from := startOfDay(start)
	to := endOfDay(end)
	if from.After(to) {
		return 0, errors.Wrapf(domain.ErrInvalidQuery, "start %s is after end %s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var row struct{ Revenue float64 }
	err := a.validSales(ctx).
		Select("COALESCE(SUM(invoice_items.quantity * invoice_items.unit_price), 0) AS revenue").
		Where("invoices.created_at BETWEEN ? AND ?", from, to).
		Scan(&row).Error
	if err != nil {
		return 0, storeErr(err, "sum revenue over range")
	}
	return row.Revenue, nil
}

// RevenueForMerchant sums valid-sale revenue for one merchant. A
// merchant that exists but has no valid sales yields 0; an unknown
// merchant id fails with ErrNotFound.
func (a *Aggregator) RevenueForMerchant(ctx context.Context, merchantID int64) (float64, error) {
	var merchant domain.Merchant
	err := a.db.WithContext(ctx).First(&merchant, merchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errors.Wrapf(domain.ErrNotFound, "merchant %d", merchantID)
	}
	if err != nil {
		return 0, storeErr(err, "load merchant")
	}

	var row struct{ Revenue float64 }
	err = a.validSales(ctx).
		Select("COALESCE(SUM(invoice_items.quantity * invoice_items.unit_price), 0) AS revenue").
		Where("merchants.id = ?", merchantID).
		Scan(&row).Error
	if err != nil {
		return 0, storeErr(err, "sum merchant revenue")
	}
	return row.Revenue, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func storeErr(err error, op string) error {
	return errors.Wrapf(domain.ErrStoreUnavailable, "%s: %v", op, err)
}
