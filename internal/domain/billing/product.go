package billing

// Product is the catalog snapshot a billing engine works from. Prices
// are in cents. OfferPrice of 0 means no offer.
type Product struct {
	Ref        string `json:"ref"`
	Title      string `json:"title"`
	Price      int64  `json:"price"`
	OfferPrice int64  `json:"offer_price"`
	Stock      int    `json:"stock"`
}

// HasOffer reports whether the offer price applies. An offer only
// counts when it is positive and strictly below the list price.
func (p *Product) HasOffer() bool {
	return p.OfferPrice > 0 && p.OfferPrice < p.Price
}

// EffectivePrice returns the unit price a line captures at selection
// time, in cents.
func (p *Product) EffectivePrice() int64 {
	if p.HasOffer() {
		return p.OfferPrice
	}
	return p.Price
}

// Catalog resolves product references against an in-memory snapshot.
// Resolve must be synchronous: the engine never awaits I/O mid-mutation,
// so implementations hold pre-loaded data. The snapshot may be replaced
// wholesale between operations; lines already holding denormalized
// title/price copies are unaffected.
type Catalog interface {
	Resolve(ref string) (*Product, error)
}
