package domain

import "time"

// Merchant represents a seller owning items and invoices
type Merchant struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"size:255;index" json:"name" form:"name"`
	Items     []Item    `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"-"`
	Invoices  []Invoice `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (Merchant) TableName() string {
	return "merchants"
}
