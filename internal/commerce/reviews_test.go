package commerce

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), ReviewInput{
			ProductID: book, UserID: "u1", UserName: "Jeanne",
			Rating: rating, Comment: "Un classique indispensable",
		})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, "note %d", rating)
	}
}

func TestCreateReviewRejectsShortComment(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	_, err := svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "u1", UserName: "Jeanne",
		Rating: 5, Comment: "  ok  ",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	reviews, _ := store.ListReviews(context.Background(), book)
	assert.Empty(t, reviews)
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	store := newMemStore()
	svc := NewReviewService(store, store)

	_, err := svc.Create(context.Background(), ReviewInput{
		ProductID: gocql.TimeUUID(), UserID: "u1", UserName: "Jeanne",
		Rating: 5, Comment: "Un classique indispensable",
	})

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCreateReviewUpdatesAggregates(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	review, err := svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "u1", UserName: "Jeanne",
		Rating: 4, Comment: "  Un classique indispensable  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Un classique indispensable", review.Comment, "commentaire trimé")
	assert.Equal(t, "Jeanne", review.UserName)

	p, err := store.GetProduct(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)
}

func TestDeleteReviewRequiresAuthorOrAdmin(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	review, err := svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "author", UserName: "Jeanne",
		Rating: 4, Comment: "Un classique indispensable",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), book, review.ID, "someone-else", false)
	var forbidden *ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	reviews, _ := store.ListReviews(context.Background(), book)
	assert.Len(t, reviews, 1, "l'avis doit survivre au refus")
}

func TestDeleteReviewByAuthorRecomputesAggregates(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	first, err := svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "author", UserName: "Jeanne",
		Rating: 4, Comment: "Un classique indispensable",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "other", UserName: "Marc",
		Rating: 5, Comment: "Magistral de bout en bout",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), book, first.ID, "author", false))

	p, err := store.GetProduct(context.Background(), book)
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)
}

func TestDeleteReviewByAdmin(t *testing.T) {
	store := newMemStore()
	book := store.addProduct("Les Misérables", 5)
	svc := NewReviewService(store, store)

	review, err := svc.Create(context.Background(), ReviewInput{
		ProductID: book, UserID: "author", UserName: "Jeanne",
		Rating: 4, Comment: "Un classique indispensable",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), book, review.ID, "admin-user", true))

	reviews, _ := store.ListReviews(context.Background(), book)
	assert.Empty(t, reviews)
}
