package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/commercekit/salesapi/internal/domain"
)

func SeedMerchant(tb testing.TB, db *gorm.DB, name string) *domain.Merchant {
	tb.Helper()
	m := &domain.Merchant{Name: name}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed merchant: %v", err)
	}
	return m
}

func SeedItem(tb testing.TB, db *gorm.DB, merchantID int64, name, description string, unitPrice float64) *domain.Item {
	tb.Helper()
	i := &domain.Item{
		Name:        name,
		Description: description,
		UnitPrice:   unitPrice,
		MerchantID:  merchantID,
	}
	if err := db.Create(i).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return i
}

func SeedInvoice(tb testing.TB, db *gorm.DB, merchantID int64, status string, createdAt time.Time) *domain.Invoice {
	tb.Helper()
	inv := &domain.Invoice{
		MerchantID: merchantID,
		Status:     status,
	}
	if err := db.Create(inv).Error; err != nil {
		tb.Fatalf("seed invoice: %v", err)
	}
	if !createdAt.IsZero() {
		if err := db.Model(inv).UpdateColumn("created_at", createdAt).Error; err != nil {
			tb.Fatalf("seed invoice created_at: %v", err)
		}
		inv.CreatedAt = createdAt
	}
	return inv
}

func SeedInvoiceItem(tb testing.TB, db *gorm.DB, itemID, invoiceID int64, quantity int, unitPrice float64) *domain.InvoiceItem {
	tb.Helper()
	ii := &domain.InvoiceItem{
		ItemID:    itemID,
		InvoiceID: invoiceID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if err := db.Create(ii).Error; err != nil {
		tb.Fatalf("seed invoice item: %v", err)
	}
	return ii
}

func SeedTransaction(tb testing.TB, db *gorm.DB, invoiceID int64, result string) *domain.Transaction {
	tb.Helper()
	tr := &domain.Transaction{
		InvoiceID:                invoiceID,
		CreditCardNumber:         "4654405418249632",
		CreditCardExpirationDate: "04/27",
		Result:                   result,
	}
	if err := db.Create(tr).Error; err != nil {
		tb.Fatalf("seed transaction: %v", err)
	}
	return tr
}

// SeedSale wires a complete sale in one call: an item for the merchant,
// an invoice with the given status, a line item, and one transaction.
func SeedSale(tb testing.TB, db *gorm.DB, merchant *domain.Merchant, status, txResult string, quantity int, unitPrice float64) *domain.Invoice {
	tb.Helper()
	item := SeedItem(tb, db, merchant.ID, "widget", "a widget", unitPrice)
	inv := SeedInvoice(tb, db, merchant.ID, status, time.Time{})
	SeedInvoiceItem(tb, db, item.ID, inv.ID, quantity, unitPrice)
	SeedTransaction(tb, db, inv.ID, txResult)
	return inv
}
