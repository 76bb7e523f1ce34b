package commerce

import (
	"context"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris_back_end/internal/models"
)

func seedReview(t *testing.T, store *memStore, productID gocql.UUID, rating int) gocql.UUID {
	t.Helper()
	review := &models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		UserID:    "u1",
		UserName:  "Jeanne",
		Rating:    rating,
		Comment:   "Très bonne lecture",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.InsertReview(context.Background(), review))
	return review.ID
}

func TestRecomputeWithoutReviews(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Madame Bovary", 5)

	rating, count, err := NewAggregator(store, store).Recompute(context.Background(), book)
	require.NoError(t, err)

	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, count)
}

func TestRecomputeSingleReview(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Madame Bovary", 5)
	seedReview(t, store, book, 4)

	rating, count, err := NewAggregator(store, store).Recompute(context.Background(), book)
	require.NoError(t, err)

	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 1, count)

	p, err := store.GetProduct(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)
}

func TestRecomputeMeanRoundedToOneDecimal(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Madame Bovary", 5)
	seedReview(t, store, book, 4)
	seedReview(t, store, book, 5)

	rating, count, err := NewAggregator(store, store).Recompute(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rating)
	assert.Equal(t, 2, count)

	// 5+4+4 = 13/3 = 4.333... → 4.3
	seedReview(t, store, book, 4)
	rating, count, err = NewAggregator(store, store).Recompute(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rating)
	assert.Equal(t, 3, count)
}

func TestRecomputeAfterDeletion(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Madame Bovary", 5)
	seedReview(t, store, book, 5)
	toDelete := seedReview(t, store, book, 4)

	agg := NewAggregator(store, store)
	rating, _, err := agg.Recompute(context.Background(), book)
	require.NoError(t, err)
	require.Equal(t, 4.5, rating)

	require.NoError(t, store.DeleteReview(context.Background(), book, toDelete))
	rating, count, err := agg.Recompute(context.Background(), book)
	require.NoError(t, err)

	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, count)
}
