package commerce

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/models"
)

// memStore implémente ProductStore, ReviewStore et OrderStore en mémoire,
// avec la même sémantique CAS que le vrai stockage.
type memStore struct {
	mu       sync.Mutex
	products map[gocql.UUID]*models.Product
	reviews  map[gocql.UUID][]models.Review
	orders   map[gocql.UUID]*models.Order

	// onCAS est appelé avant chaque CompareAndSetStock, hors verrou, pour
	// simuler un écrivain concurrent entre la validation et le commit.
	onCAS           func(s *memStore, id gocql.UUID)
	failInsertOrder bool
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[gocql.UUID]*models.Product),
		reviews:  make(map[gocql.UUID][]models.Review),
		orders:   make(map[gocql.UUID]*models.Order),
	}
}

func (s *memStore) addProduct(name string, stock int) gocql.UUID {
	id := gocql.TimeUUID()
	s.products[id] = &models.Product{ID: id, Name: name, Slug: name, CountInStock: stock}
	return id
}

func (s *memStore) stockOf(id gocql.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].CountInStock
}

func (s *memStore) setStock(id gocql.UUID, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id].CountInStock = stock
}

func (s *memStore) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, &NotFoundError{Resource: "Produit"}
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) CompareAndSetStock(ctx context.Context, id gocql.UUID, expected, newStock int) (bool, error) {
	if s.onCAS != nil {
		s.onCAS(s, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return false, errors.New("produit absent")
	}
	if p.CountInStock != expected {
		return false, nil
	}
	p.CountInStock = newStock
	return true, nil
}

func (s *memStore) SetRating(ctx context.Context, id gocql.UUID, rating float64, numReviews int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return &NotFoundError{Resource: "Produit"}
	}
	p.Rating = rating
	p.NumReviews = numReviews
	return nil
}

func (s *memStore) ListReviews(ctx context.Context, productID gocql.UUID) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Review, len(s.reviews[productID]))
	copy(out, s.reviews[productID])
	return out, nil
}

func (s *memStore) GetReview(ctx context.Context, productID, reviewID gocql.UUID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews[productID] {
		if r.ID == reviewID {
			cp := r
			return &cp, nil
		}
	}
	return nil, &NotFoundError{Resource: "Avis"}
}

func (s *memStore) InsertReview(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.ProductID] = append(s.reviews[review.ProductID], *review)
	return nil
}

func (s *memStore) DeleteReview(ctx context.Context, productID, reviewID gocql.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reviews[productID][:0]
	for _, r := range s.reviews[productID] {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	s.reviews[productID] = kept
	return nil
}

func (s *memStore) InsertOrder(ctx context.Context, order *models.Order) error {
	if s.failInsertOrder {
		return errors.New("panne simulée du stockage")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *memStore) GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, &NotFoundError{Resource: "Commande"}
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) UpdatePayment(ctx context.Context, id gocql.UUID, paidAt time.Time, result models.PaymentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return &NotFoundError{Resource: "Commande"}
	}
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.PaymentResult = &result
	return nil
}

func (s *memStore) UpdateDelivery(ctx context.Context, id gocql.UUID, deliveredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return &NotFoundError{Resource: "Commande"}
	}
	o.IsDelivered = true
	o.DeliveredAt = &deliveredAt
	return nil
}
