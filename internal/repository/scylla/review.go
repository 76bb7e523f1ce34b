package scylla

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"libris_back_end/internal/commerce"
	"libris_back_end/internal/models"
)

type ReviewRepository struct {
	session *gocql.Session
}

func NewReviewRepository(session *gocql.Session) *ReviewRepository {
	return &ReviewRepository{session: session}
}

func (r *ReviewRepository) ListReviews(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	iter := r.session.Query(`SELECT review_id, user_id, user_name, rating, comment, created_at
		FROM reviews_by_product WHERE product_id = ?`, productID).WithContext(ctx).Iter()

	var reviews []models.Review
	var rv models.Review
	for iter.Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt) {
		rv.ProductID = productID
		reviews = append(reviews, rv)
		rv = models.Review{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture avis: %w", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, productID, reviewID gocql.UUID) (*models.Review, error) {
	var rv models.Review
	err := r.session.Query(`SELECT review_id, user_id, user_name, rating, comment, created_at
		FROM reviews_by_product WHERE product_id = ? AND review_id = ?`, productID, reviewID).
		WithContext(ctx).Scan(&rv.ID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Avis"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture avis: %w", err)
	}
	rv.ProductID = productID
	return &rv, nil
}

func (r *ReviewRepository) InsertReview(ctx context.Context, review *models.Review) error {
	err := r.session.Query(`INSERT INTO reviews_by_product (product_id, review_id, user_id, user_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ProductID, review.ID, review.UserID, review.UserName,
		review.Rating, review.Comment, review.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insertion avis: %w", err)
	}
	return nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, productID, reviewID gocql.UUID) error {
	err := r.session.Query("DELETE FROM reviews_by_product WHERE product_id = ? AND review_id = ?",
		productID, reviewID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("suppression avis: %w", err)
	}
	return nil
}
