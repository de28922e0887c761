package model

import "time"

// Guest represents a row in the `guests` table.  Email is the natural key
// used when a booking upserts the guest.
type Guest struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	Gender      string     `json:"gender,omitempty"`
	Email       string     `json:"email"`
	Passport    string     `json:"passport,omitempty"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	Address1    string     `json:"address1,omitempty"`
	Address2    string     `json:"address2,omitempty"`
	Locality    string     `json:"locality,omitempty"`
	Postcode    string     `json:"postcode,omitempty"`
	Province    string     `json:"province,omitempty"`
	Country     string     `json:"country,omitempty"`
	HomePhone   string     `json:"home_phone,omitempty"`
	MobilePhone string     `json:"mobile_phone,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
