package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weavewear/weavewear-backend-go/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryCartStore mimics the compare-and-swap semantics of the carts
// collection: a save only lands when the caller's version token matches,
// and every successful save bumps the stored version.
type memoryCartStore struct {
	cart    models.Cart
	fetches int
	saves   int
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{cart: models.Cart{
		ID:    primitive.NewObjectID(),
		User:  primitive.NewObjectID(),
		Items: []models.CartItem{},
	}}
}

func (s *memoryCartStore) fetch() (*models.Cart, error) {
	s.fetches++
	snapshot := s.cart
	snapshot.Items = append([]models.CartItem{}, s.cart.Items...)
	return &snapshot, nil
}

func (s *memoryCartStore) save(cart *models.Cart) error {
	s.saves++
	if cart.Version != s.cart.Version {
		return errVersionConflict
	}
	s.cart.Items = cart.Items
	s.cart.Version++
	return nil
}

func TestApplyCartMutationBumpsVersion(t *testing.T) {
	store := newMemoryCartStore()
	productX := primitive.NewObjectID()

	cart, err := applyCartMutation(store.fetch, store.save, func(cart *models.Cart) error {
		return cart.AddItem(productX, 2, "M", "Red", 50)
	})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(1), store.cart.Version)
	assert.Equal(t, 1, store.fetches)

	_, err = applyCartMutation(store.fetch, store.save, func(cart *models.Cart) error {
		return cart.AddItem(productX, 1, "M", "Red", 50)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), store.cart.Version)
	assert.Equal(t, 3, store.cart.Items[0].Quantity)
}

func TestApplyCartMutationRetriesAfterConflict(t *testing.T) {
	store := newMemoryCartStore()

	// A concurrent writer lands between the first fetch and save
	fetch := func() (*models.Cart, error) {
		cart, err := store.fetch()
		if store.fetches == 1 {
			store.cart.Version++
		}
		return cart, err
	}

	cart, err := applyCartMutation(fetch, store.save, func(cart *models.Cart) error {
		return cart.AddItem(primitive.NewObjectID(), 1, "M", "Red", 50)
	})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, store.fetches)
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, int64(2), store.cart.Version)
}

func TestApplyCartMutationGivesUpAfterRetries(t *testing.T) {
	store := newMemoryCartStore()

	// Every attempt loses the race
	fetch := func() (*models.Cart, error) {
		cart, err := store.fetch()
		store.cart.Version++
		return cart, err
	}

	_, err := applyCartMutation(fetch, store.save, func(cart *models.Cart) error {
		return cart.AddItem(primitive.NewObjectID(), 1, "M", "Red", 50)
	})
	require.ErrorIs(t, err, errVersionConflict)
	assert.Equal(t, cartWriteRetries, store.fetches)
	assert.Empty(t, store.cart.Items)
}

func TestApplyCartMutationAbortsOnMutateError(t *testing.T) {
	store := newMemoryCartStore()

	_, err := applyCartMutation(store.fetch, store.save, func(cart *models.Cart) error {
		return cart.AddItem(primitive.NewObjectID(), 0, "M", "Red", 50)
	})
	require.ErrorIs(t, err, models.ErrInvalidQuantity)
	assert.Zero(t, store.saves)
	assert.Equal(t, int64(0), store.cart.Version)
}

func TestCartErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{models.ErrInvalidQuantity, http.StatusBadRequest},
		{models.ErrCartItemNotFound, http.StatusNotFound},
		{errVersionConflict, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/cart", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, cartError(c, tc.err))
		assert.Equalf(t, tc.code, rec.Code, "error %v", tc.err)
	}
}
