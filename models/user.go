package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAddressNotFound       = errors.New("address not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrDeleteDefault         = errors.New("cannot delete default entry")
)

type Address struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"` // e.g. "Home", "Work"
	StreetAddress string             `bson:"streetAddress" json:"streetAddress"`
	City          string             `bson:"city" json:"city"`
	State         string             `bson:"state" json:"state"`
	PostalCode    string             `bson:"postalCode" json:"postalCode"`
	Country       string             `bson:"country" json:"country"`
	IsDefault     bool               `bson:"isDefault" json:"isDefault"`
}

type PaymentMethod struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"` // e.g. "credit", "paypal"
	CardBrand   string             `bson:"cardBrand,omitempty" json:"cardBrand,omitempty"`
	LastFour    string             `bson:"lastFour,omitempty" json:"lastFour,omitempty"`
	ExpiryMonth int                `bson:"expiryMonth,omitempty" json:"expiryMonth,omitempty"`
	ExpiryYear  int                `bson:"expiryYear,omitempty" json:"expiryYear,omitempty"`
	IsDefault   bool               `bson:"isDefault" json:"isDefault"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password,omitempty" json:"-"` // empty for Google-only accounts
	GoogleID       string             `bson:"googleId,omitempty" json:"googleId,omitempty"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses      []Address          `bson:"addresses" json:"addresses"`
	PaymentMethods []PaymentMethod    `bson:"paymentMethods" json:"paymentMethods"`
	Created        time.Time          `bson:"created" json:"created"`
}

// AddAddress appends a new address. A new default clears the flag on every sibling.
func (u *User) AddAddress(a Address) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, a)
}

// UpdateAddress replaces the fields of an existing address in place.
func (u *User) UpdateAddress(id primitive.ObjectID, a Address) error {
	idx := -1
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrAddressNotFound
	}
	if a.IsDefault && !u.Addresses[idx].IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	a.ID = id
	u.Addresses[idx] = a
	return nil
}

// DeleteAddress removes an address. The default address cannot be deleted;
// callers must set another default first.
func (u *User) DeleteAddress(id primitive.ObjectID) error {
	for i := range u.Addresses {
		if u.Addresses[i].ID != id {
			continue
		}
		if u.Addresses[i].IsDefault {
			return ErrDeleteDefault
		}
		u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
		return nil
	}
	return ErrAddressNotFound
}

// SetDefaultAddress marks exactly one address as default. Selecting the current
// default is a no-op that still clears every other flag.
func (u *User) SetDefaultAddress(id primitive.ObjectID) error {
	found := false
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = u.Addresses[i].ID == id
		if u.Addresses[i].IsDefault {
			found = true
		}
	}
	if !found {
		return ErrAddressNotFound
	}
	return nil
}

// AddPaymentMethod appends a payment method under the same exclusivity rule as
// addresses.
func (u *User) AddPaymentMethod(pm PaymentMethod) {
	if pm.ID.IsZero() {
		pm.ID = primitive.NewObjectID()
	}
	if pm.IsDefault {
		for i := range u.PaymentMethods {
			u.PaymentMethods[i].IsDefault = false
		}
	}
	u.PaymentMethods = append(u.PaymentMethods, pm)
}

func (u *User) DeletePaymentMethod(id primitive.ObjectID) error {
	for i := range u.PaymentMethods {
		if u.PaymentMethods[i].ID != id {
			continue
		}
		if u.PaymentMethods[i].IsDefault {
			return ErrDeleteDefault
		}
		u.PaymentMethods = append(u.PaymentMethods[:i], u.PaymentMethods[i+1:]...)
		return nil
	}
	return ErrPaymentMethodNotFound
}

func (u *User) SetDefaultPaymentMethod(id primitive.ObjectID) error {
	found := false
	for i := range u.PaymentMethods {
		u.PaymentMethods[i].IsDefault = u.PaymentMethods[i].ID == id
		if u.PaymentMethods[i].IsDefault {
			found = true
		}
	}
	if !found {
		return ErrPaymentMethodNotFound
	}
	return nil
}
