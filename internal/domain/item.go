package domain

import "time"

// Item represents a product listed by a merchant.
// UnitPrice is the current catalog price; invoice line items capture
// the sale-time price separately.
type Item struct {
	ID          int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name        string    `gorm:"size:255;index" json:"name" form:"name"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	UnitPrice   float64   `gorm:"type:numeric(12,2)" json:"unit_price" form:"unit_price"`
	MerchantID  int64     `gorm:"index" json:"merchant_id" form:"merchant_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns table name
func (Item) TableName() string {
	return "items"
}
