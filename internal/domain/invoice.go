package domain

import "time"

// Invoice statuses observed in the sales pipeline. Only shipped
// invoices count toward revenue.
const (
	InvoiceStatusShipped  = "shipped"
	InvoiceStatusPackaged = "packaged"
	InvoiceStatusReturned = "returned"
)

// Invoice represents one order placed by a customer with a merchant
type Invoice struct {
	ID         int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	MerchantID int64     `gorm:"index" json:"merchant_id" form:"merchant_id"`
	CustomerID int64     `gorm:"index" json:"customer_id" form:"customer_id"`
	Status     string    `gorm:"size:32;index" json:"status" form:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns table name
func (Invoice) TableName() string {
	return "invoices"
}
