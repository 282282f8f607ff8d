package billing

import "sync"

// Snapshot is an in-memory catalog keyed by product reference. It
// implements Catalog. Replace swaps the whole snapshot at once (after
// a catalog reload) without disturbing engines that hold it: lines
// already carry their own denormalized copies.
type Snapshot struct {
	mu       sync.RWMutex
	products map[string]Product
}

// NewSnapshot builds a snapshot from a product list.
func NewSnapshot(products []Product) *Snapshot {
	s := &Snapshot{}
	s.Replace(products)
	return s
}

// Replace swaps the snapshot contents wholesale.
func (s *Snapshot) Replace(products []Product) {
	byRef := make(map[string]Product, len(products))
	for _, p := range products {
		byRef[p.Ref] = p
	}
	s.mu.Lock()
	s.products = byRef
	s.mu.Unlock()
}

// Resolve looks up a product by reference.
func (s *Snapshot) Resolve(ref string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[ref]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
