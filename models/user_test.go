package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func defaultCount(addresses []Address) int {
	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddAddressDefaultExclusivity(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home", IsDefault: true})
	user.AddAddress(Address{Name: "Work", IsDefault: true})
	user.AddAddress(Address{Name: "Parents", IsDefault: false})

	require.Len(t, user.Addresses, 3)
	assert.Equal(t, 1, defaultCount(user.Addresses))
	assert.True(t, user.Addresses[1].IsDefault) // latest default wins
}

func TestSetDefaultAddressClearsSiblings(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home", IsDefault: true})
	user.AddAddress(Address{Name: "Work"})

	require.NoError(t, user.SetDefaultAddress(user.Addresses[1].ID))
	assert.Equal(t, 1, defaultCount(user.Addresses))
	assert.False(t, user.Addresses[0].IsDefault)
	assert.True(t, user.Addresses[1].IsDefault)
}

func TestSetDefaultAddressIdempotent(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home", IsDefault: true})
	id := user.Addresses[0].ID

	require.NoError(t, user.SetDefaultAddress(id))
	require.NoError(t, user.SetDefaultAddress(id))
	assert.Equal(t, 1, defaultCount(user.Addresses))
	assert.True(t, user.Addresses[0].IsDefault)
}

func TestSetDefaultAddressUnknown(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home"})
	assert.ErrorIs(t, user.SetDefaultAddress(primitive.NewObjectID()), ErrAddressNotFound)
}

func TestDeleteDefaultAddressRejected(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home", IsDefault: true})
	user.AddAddress(Address{Name: "Work"})

	err := user.DeleteAddress(user.Addresses[0].ID)
	assert.ErrorIs(t, err, ErrDeleteDefault)
	assert.Len(t, user.Addresses, 2) // list unchanged

	require.NoError(t, user.DeleteAddress(user.Addresses[1].ID))
	assert.Len(t, user.Addresses, 1)
}

func TestUpdateAddressPromotingToDefault(t *testing.T) {
	user := &User{}
	user.AddAddress(Address{Name: "Home", IsDefault: true})
	user.AddAddress(Address{Name: "Work"})
	workID := user.Addresses[1].ID

	require.NoError(t, user.UpdateAddress(workID, Address{Name: "Work", City: "Austin", IsDefault: true}))
	assert.Equal(t, 1, defaultCount(user.Addresses))
	assert.True(t, user.Addresses[1].IsDefault)
	assert.Equal(t, "Austin", user.Addresses[1].City)
	assert.Equal(t, workID, user.Addresses[1].ID)

	assert.ErrorIs(t, user.UpdateAddress(primitive.NewObjectID(), Address{}), ErrAddressNotFound)
}

func TestPaymentMethodDefaultExclusivity(t *testing.T) {
	user := &User{}
	user.AddPaymentMethod(PaymentMethod{Type: "credit", LastFour: "4242", IsDefault: true})
	user.AddPaymentMethod(PaymentMethod{Type: "paypal", IsDefault: true})

	defaults := 0
	for _, pm := range user.PaymentMethods {
		if pm.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	// The default cannot be deleted
	assert.ErrorIs(t, user.DeletePaymentMethod(user.PaymentMethods[1].ID), ErrDeleteDefault)

	// Re-designate, then the old default becomes deletable
	require.NoError(t, user.SetDefaultPaymentMethod(user.PaymentMethods[0].ID))
	require.NoError(t, user.DeletePaymentMethod(user.PaymentMethods[1].ID))
	assert.Len(t, user.PaymentMethods, 1)
}
