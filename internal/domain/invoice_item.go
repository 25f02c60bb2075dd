package domain

import "time"

// InvoiceItem links an item to an invoice with the quantity and unit
// price at sale time. Revenue is always quantity * unit_price from this
// record, never from the item's current catalog price.
type InvoiceItem struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	ItemID    int64     `gorm:"index" json:"item_id" form:"item_id"`
	InvoiceID int64     `gorm:"index" json:"invoice_id" form:"invoice_id"`
	Quantity  int       `json:"quantity" form:"quantity"`
	UnitPrice float64   `gorm:"type:numeric(12,2)" json:"unit_price" form:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
