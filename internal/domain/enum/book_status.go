package enum

// BookStatus represents the availability status of a book
type BookStatus string

const (
	BookStatusActive     BookStatus = "active"
	BookStatusOutOfStock BookStatus = "out_of_stock"
	BookStatusInactive   BookStatus = "inactive"
)

// Valid checks if the status is a known value
func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusActive, BookStatusOutOfStock, BookStatusInactive:
		return true
	}
	return false
}

// String returns the string representation
func (s BookStatus) String() string {
	return string(s)
}
