package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pahanaedu/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Book represents a book or educational material in the catalog
type Book struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Author      string          `gorm:"size:255" json:"author"`
	ReferenceNo string          `gorm:"size:100;unique;not null" json:"reference_no"`
	Price       int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OfferPrice  int64           `gorm:"default:0" json:"-"` // Stored in cents, 0 means no offer
	Stock       int             `gorm:"default:0" json:"stock"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Status      enum.BookStatus `gorm:"size:50;default:'active'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Book) MarshalJSON() ([]byte, error) {
	type Alias Book
	return json.Marshal(&struct {
		Alias
		Price      float64 `json:"price"`
		OfferPrice float64 `json:"offer_price"`
		HasOffer   bool    `json:"has_offer"`
	}{
		Alias:      Alias(b),
		Price:      float64(b.Price) / 100,
		OfferPrice: float64(b.OfferPrice) / 100,
		HasOffer:   b.HasOffer(),
	})
}

// BeforeCreate generates a UUID and reference number before creating a new book
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.ReferenceNo == "" {
		b.ReferenceNo = "BK-" + b.ID.String()[:8]
	}
	return nil
}

// TableName returns the table name for the Book model
func (Book) TableName() string {
	return "books"
}

// HasOffer reports whether the offer price applies. An offer only
// counts when it is positive and strictly below the list price.
func (b *Book) HasOffer() bool {
	return b.OfferPrice > 0 && b.OfferPrice < b.Price
}

// EffectivePrice returns the price a buyer actually pays, in cents.
func (b *Book) EffectivePrice() int64 {
	if b.HasOffer() {
		return b.OfferPrice
	}
	return b.Price
}

// SyncStatus updates the status based on current stock
func (b *Book) SyncStatus() {
	if b.Stock <= 0 {
		b.Status = enum.BookStatusOutOfStock
	} else if b.Status == enum.BookStatusOutOfStock {
		b.Status = enum.BookStatusActive
	}
}

// QRPayload returns the value encoded into the book's QR label.
// Scanners feed this straight back as a catalog lookup.
func (b *Book) QRPayload() string {
	return b.ReferenceNo
}

// SetPriceFromDecimal sets the list price from a decimal value
func (b *Book) SetPriceFromDecimal(price float64) {
	b.Price = int64(price * 100)
}

// SetOfferPriceFromDecimal sets the offer price from a decimal value
func (b *Book) SetOfferPriceFromDecimal(price float64) {
	b.OfferPrice = int64(price * 100)
}
