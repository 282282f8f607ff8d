package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Bill represents a finalized, persisted bill produced by checkout.
// Once written it is immutable; corrections are new bills.
type Bill struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillNo        string             `gorm:"size:100;unique;not null" json:"bill_no"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	BillDate      time.Time          `gorm:"type:date;not null" json:"bill_date"`
	PaymentMethod enum.PaymentMethod `gorm:"size:50;default:'CASH'" json:"payment_method"`
	ItemCount     int                `gorm:"default:0" json:"item_count"`
	SubTotal      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax           int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(b),
		SubTotal: float64(b.SubTotal) / 100,
		Tax:      float64(b.Tax) / 100,
		Total:    float64(b.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents one line of a persisted bill. Title, reference
// number and unit price are snapshots taken at checkout time, so later
// catalog edits never rewrite history.
type BillItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID      uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`
	BookID      uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	ReferenceNo string    `gorm:"size:100;not null" json:"reference_no"`
	UnitPrice   int64     `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Quantity    int       `gorm:"not null" json:"quantity"`
	Total       int64     `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		Total:     float64(i.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
