package commerce

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/models"
)

// ProductStore est la partie du catalogue consommée par le cœur métier.
type ProductStore interface {
	GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error)
	// CompareAndSetStock remplace le stock par newStock seulement si la
	// valeur courante vaut encore expected. Retourne false si le stock a
	// bougé entre-temps (perdu la course), sans rien modifier.
	CompareAndSetStock(ctx context.Context, id gocql.UUID, expected, newStock int) (bool, error)
	// SetRating persiste les agrégats dérivés (note moyenne + nombre d'avis).
	SetRating(ctx context.Context, id gocql.UUID, rating float64, numReviews int) error
}

// ReviewStore est le registre des avis, une collection par produit.
type ReviewStore interface {
	ListReviews(ctx context.Context, productID gocql.UUID) ([]models.Review, error)
	GetReview(ctx context.Context, productID, reviewID gocql.UUID) (*models.Review, error)
	InsertReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, productID, reviewID gocql.UUID) error
}

// OrderStore est le registre des commandes.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error)
	UpdatePayment(ctx context.Context, id gocql.UUID, paidAt time.Time, result models.PaymentResult) error
	UpdateDelivery(ctx context.Context, id gocql.UUID, deliveredAt time.Time) error
}
