package commerce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/models"
)

const minCommentLength = 5

// ReviewService gère la création et la suppression d'avis, et maintient les
// agrégats du produit en phase à chaque mutation.
type ReviewService struct {
	products   ProductStore
	reviews    ReviewStore
	aggregator *Aggregator
}

func NewReviewService(products ProductStore, reviews ReviewStore) *ReviewService {
	return &ReviewService{
		products:   products,
		reviews:    reviews,
		aggregator: NewAggregator(products, reviews),
	}
}

type ReviewInput struct {
	ProductID gocql.UUID
	UserID    string
	UserName  string // nom d'affichage figé à la soumission
	Rating    int
	Comment   string
}

// Create valide l'avis, le persiste puis recalcule immédiatement les
// agrégats du produit. Un même utilisateur peut soumettre plusieurs avis
// pour un même produit (choix assumé du modèle de données).
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, &ValidationError{Message: "La note doit être comprise entre 1 et 5"}
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) < minCommentLength {
		return nil, &ValidationError{Message: fmt.Sprintf("Le commentaire doit contenir au moins %d caractères", minCommentLength)}
	}

	// Le produit doit exister : un avis orphelin fausserait les agrégats.
	if _, err := s.products.GetProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: in.ProductID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := s.reviews.InsertReview(ctx, review); err != nil {
		return nil, fmt.Errorf("création avis: %w", err)
	}

	if _, _, err := s.aggregator.Recompute(ctx, in.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete supprime un avis si l'appelant en est l'auteur ou est admin, puis
// recalcule les agrégats du produit concerné.
func (s *ReviewService) Delete(ctx context.Context, productID, reviewID gocql.UUID, callerID string, isAdmin bool) error {
	review, err := s.reviews.GetReview(ctx, productID, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != callerID && !isAdmin {
		return &ForbiddenError{Message: "Seul l'auteur de l'avis ou un admin peut le supprimer"}
	}

	if err := s.reviews.DeleteReview(ctx, productID, reviewID); err != nil {
		return fmt.Errorf("suppression avis: %w", err)
	}

	_, _, err = s.aggregator.Recompute(ctx, productID)
	return err
}
