package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Address1     string    `json:"address1"`
	Address2     string    `json:"address2,omitempty"`
	City         string    `json:"city"`
	Postcode     string    `json:"postcode"`
	Phone        string    `json:"phone"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}
