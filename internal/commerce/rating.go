package commerce

import (
	"context"
	"fmt"
	"math"

	"github.com/gocql/gocql"
)

// Aggregator recalcule la note moyenne et le nombre d'avis d'un produit à
// partir du registre des avis. Les champs dérivés ne sont jamais calculés
// paresseusement à la lecture : chaque mutation d'avis déclenche Recompute.
type Aggregator struct {
	products ProductStore
	reviews  ReviewStore
}

func NewAggregator(products ProductStore, reviews ReviewStore) *Aggregator {
	return &Aggregator{products: products, reviews: reviews}
}

// Recompute relit tous les avis du produit et persiste les agrégats.
// Sans avis : note 0, compteur 0. Sinon : moyenne arrondie à une décimale.
func (a *Aggregator) Recompute(ctx context.Context, productID gocql.UUID) (float64, int, error) {
	reviews, err := a.reviews.ListReviews(ctx, productID)
	if err != nil {
		return 0, 0, fmt.Errorf("lecture avis: %w", err)
	}

	var rating float64
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		mean := float64(total) / float64(len(reviews))
		rating = math.Round(mean*10) / 10
	}

	if err := a.products.SetRating(ctx, productID, rating, len(reviews)); err != nil {
		return 0, 0, fmt.Errorf("persistance agrégats: %w", err)
	}
	return rating, len(reviews), nil
}
