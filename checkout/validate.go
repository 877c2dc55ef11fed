package checkout

import "lakecity/models"

// Form is the contact, pickup and payment data submitted with a checkout.
// Card fields are collected but never charged; any non-empty value passes.
type Form struct {
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	CustomerPhone string               `json:"customer_phone"`
	PickupDate    string               `json:"pickup_date"`
	Notes         string               `json:"notes"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CardNumber    string               `json:"card_number"`
	CardExpiry    string               `json:"card_expiry"`
	CardCVC       string               `json:"card_cvc"`
}

// Reason classifies a rejected checkout.
type Reason string

const (
	ReasonEmptyCart            Reason = "empty_cart"
	ReasonMissingFields        Reason = "missing_fields"
	ReasonInvalidPaymentMethod Reason = "invalid_payment_method"
	ReasonMissingCard          Reason = "missing_card"
)

// ValidationError is returned when a submission is rejected before anything
// is stored. Message is meant for the customer.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func reject(reason Reason, msg string) *ValidationError {
	return &ValidationError{Reason: reason, Message: msg}
}

// Validate checks a submission in order and reports the first failure.
// An empty payment method is treated as card.
func Validate(items []models.CartItem, form *Form) error {
	if len(items) == 0 {
		return reject(ReasonEmptyCart, "Your cart is empty")
	}
	if form.CustomerName == "" || form.CustomerEmail == "" || form.CustomerPhone == "" || form.PickupDate == "" {
		return reject(ReasonMissingFields, "Please fill in all required fields")
	}

	if form.PaymentMethod == "" {
		form.PaymentMethod = models.PaymentCard
	}
	switch form.PaymentMethod {
	case models.PaymentCard:
		if form.CardNumber == "" || form.CardExpiry == "" || form.CardCVC == "" {
			return reject(ReasonMissingCard, "Please enter your card details")
		}
	case models.PaymentCashOnPickup:
	default:
		return reject(ReasonInvalidPaymentMethod, "Please choose a payment method")
	}
	return nil
}
