package domain

import "time"

// Transaction results. An invoice may carry several payment attempts;
// one success is enough to make the invoice a valid sale.
const (
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

// Transaction represents a payment attempt against an invoice
type Transaction struct {
	ID                       int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	InvoiceID                int64     `gorm:"index" json:"invoice_id" form:"invoice_id"`
	CreditCardNumber         string    `gorm:"size:32" json:"credit_card_number" form:"credit_card_number"`
	CreditCardExpirationDate string    `gorm:"size:16" json:"credit_card_expiration_date" form:"credit_card_expiration_date"`
	Result                   string    `gorm:"size:16;index" json:"result" form:"result"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// TableName returns table name
func (Transaction) TableName() string {
	return "transactions"
}
