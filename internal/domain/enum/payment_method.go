package enum

// PaymentMethod represents how a bill was paid
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
)

// Valid checks if the payment method is a known value
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard:
		return true
	}
	return false
}

// String returns the string representation
func (p PaymentMethod) String() string {
	return string(p)
}
