package order

import "time"

// Item is one line of the cart snapshot captured at checkout. Later cart
// mutations never touch a placed order.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"imageRef,omitempty"`
}

type ShippingDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
}

// PaymentSummary is opaque payment metadata; no transaction is ever executed.
type PaymentSummary struct {
	Last4 string `json:"last4"`
	Brand string `json:"brand"`
}

type Order struct {
	ID              string          `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Items           []Item          `json:"items"`
	ShippingDetails ShippingDetails `json:"shippingDetails"`
	TotalAmount     float64         `json:"totalAmount"`
	PaymentSummary  PaymentSummary  `json:"paymentMethod"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
