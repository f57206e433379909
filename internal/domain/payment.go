package domain

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentMomo PaymentMethod = "momo"
	PaymentZalo PaymentMethod = "zalo"
	PaymentCash PaymentMethod = "cash"
)

// PaymentFields carries whatever the customer typed into the payment form.
// Only the fields relevant to the chosen method are checked.
type PaymentFields struct {
	CardNumber string `json:"cardNumber,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVC        string `json:"cvc,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type PaymentIntentRequest struct {
	OrderID       string
	Amount        int64
	CustomerEmail string
	CustomerName  string
	Description   string
}

type PaymentIntent struct {
	ID           string `json:"paymentIntentId"`
	ClientSecret string `json:"clientSecret"`
	Status       string `json:"status"`
}
