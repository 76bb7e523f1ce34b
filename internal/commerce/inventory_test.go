package commerce

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris_back_end/internal/models"
)

func TestApplyDecrementsEveryLine(t *testing.T) {
	store := newMemStore()
	bookA := store.addProduct("Le Comte de Monte-Cristo", 10)
	bookB := store.addProduct("Vingt mille lieues sous les mers", 3)

	deltas, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: bookA, Quantity: 2},
		{ProductID: bookB, Quantity: 3},
	})
	require.NoError(t, err)

	assert.Len(t, deltas, 2)
	assert.Equal(t, 8, store.stockOf(bookA))
	assert.Equal(t, 0, store.stockOf(bookB))
}

func TestApplyInsufficientStock(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Germinal", 2)

	_, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: book, Quantity: 5},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Germinal", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, "Insufficient stock for Germinal. Only 2 available.", err.Error())
	assert.Equal(t, 2, store.stockOf(book), "le stock ne doit pas bouger sur refus")
}

func TestApplyValidatesBeforeTouchingStock(t *testing.T) {
	store := newMemStore()
	okBook := store.addProduct("Bel-Ami", 10)
	shortBook := store.addProduct("L'Assommoir", 1)

	_, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: okBook, Quantity: 1},
		{ProductID: shortBook, Quantity: 4},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	// La première ligne était valide mais rien ne doit avoir été décrémenté :
	// la validation couvre toute la commande avant le moindre commit.
	assert.Equal(t, 10, store.stockOf(okBook))
	assert.Equal(t, 1, store.stockOf(shortBook))
}

func TestApplySkipsUnknownProducts(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Candide", 5)
	ghost := gocql.TimeUUID()

	deltas, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: ghost, Quantity: 2},
		{ProductID: book, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Len(t, deltas, 1)
	assert.Equal(t, book, deltas[0].ProductID)
	assert.Equal(t, 4, store.stockOf(book))
}

func TestApplyRetriesAfterLosingRace(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Notre-Dame de Paris", 10)

	// Un acheteur concurrent prend 3 exemplaires juste avant le premier CAS.
	raced := false
	store.onCAS = func(s *memStore, id gocql.UUID) {
		if !raced {
			raced = true
			s.setStock(id, 7)
		}
	}

	deltas, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: book, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Len(t, deltas, 1)
	assert.Equal(t, 5, store.stockOf(book), "relecture puis nouveau CAS sur la valeur fraîche")
}

func TestApplyFailsWhenRaceLeavesTooLittle(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("La Peste", 4)

	// Le concurrent rafle presque tout entre validation et commit.
	raced := false
	store.onCAS = func(s *memStore, id gocql.UUID) {
		if !raced {
			raced = true
			s.setStock(id, 1)
		}
	}

	_, err := NewReconciler(store).Apply(context.Background(), []models.OrderItem{
		{ProductID: book, Quantity: 3},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 1, store.stockOf(book))
}

func TestReleaseRecreditsStock(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("L'Étranger", 6)
	r := NewReconciler(store)

	deltas, err := r.Apply(context.Background(), []models.OrderItem{
		{ProductID: book, Quantity: 4},
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.stockOf(book))

	r.Release(context.Background(), deltas)
	assert.Equal(t, 6, store.stockOf(book))
}
