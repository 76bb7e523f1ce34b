package commerce

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/models"
)

// CheckoutInput est le brouillon de commande soumis par le client : lignes
// avec prix unitaires figés, adresse, moyen de paiement et ventilation des
// prix calculée côté client.
type CheckoutInput struct {
	UserID          string
	UserName        string
	UserEmail       string
	Items           []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	ShippingPrice   float64
	TaxPrice        float64
	TotalPrice      float64
}

// CheckoutService orchestre le passage de commande : validation du panier,
// réconciliation du stock, persistance de la commande. Il porte aussi les
// transitions d'état (payée, livrée), qui sont des bascules à sens unique.
type CheckoutService struct {
	reconciler *Reconciler
	orders     OrderStore
}

func NewCheckoutService(products ProductStore, orders OrderStore) *CheckoutService {
	return &CheckoutService{
		reconciler: NewReconciler(products),
		orders:     orders,
	}
}

// PlaceOrder exécute le workflow complet. Si la persistance de la commande
// échoue après que le stock a été décrémenté, les quantités sont
// re-créditées avant de remonter l'erreur.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "La commande ne contient aucun article"}
	}
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, &ValidationError{Message: "Chaque ligne de commande doit avoir une quantité d'au moins 1"}
		}
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, &ValidationError{Message: "Le moyen de paiement est obligatoire"}
	}
	if strings.TrimSpace(in.ShippingAddress.Address) == "" || strings.TrimSpace(in.ShippingAddress.FullName) == "" {
		return nil, &ValidationError{Message: "L'adresse de livraison est incomplète"}
	}

	deltas, err := s.reconciler.Apply(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              gocql.TimeUUID(),
		UserID:          in.UserID,
		UserName:        in.UserName,
		UserEmail:       in.UserEmail,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      in.ItemsPrice,
		ShippingPrice:   in.ShippingPrice,
		TaxPrice:        in.TaxPrice,
		TotalPrice:      in.TotalPrice,
		CreatedAt:       time.Now(),
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		// Le stock a déjà été décrémenté : compensation avant de remonter.
		s.reconciler.Release(ctx, deltas)
		return nil, fmt.Errorf("persistance commande: %w", err)
	}

	log.Printf("🧾 Commande %s créée pour %s (%d article(s), %.2f€)",
		order.ID, in.UserID, len(in.Items), in.TotalPrice)
	return order, nil
}

// MarkPaid bascule isPaid et horodate le paiement avec le reçu opaque
// fourni. La bascule ne vérifie pas l'état courant : re-marquer une commande
// payée re-tamponne simplement paidAt.
func (s *CheckoutService) MarkPaid(ctx context.Context, orderID gocql.UUID, result models.PaymentResult) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.orders.UpdatePayment(ctx, orderID, now, result); err != nil {
		return nil, fmt.Errorf("mise à jour paiement: %w", err)
	}

	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result
	return order, nil
}

// FakePay marque la commande payée avec un reçu factice (raccourci de test,
// réservé aux admins).
func (s *CheckoutService) FakePay(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	now := time.Now()
	return s.MarkPaid(ctx, orderID, models.PaymentResult{
		ID:           fmt.Sprintf("FAKE_PAYMENT_%d", now.UnixMilli()),
		Status:       "COMPLETED",
		UpdateTime:   now.Format(time.RFC3339),
		EmailAddress: "test@fake.com",
	})
}

// MarkDelivered bascule isDelivered et horodate la livraison. Même sémantique
// de re-tamponnage que MarkPaid.
func (s *CheckoutService) MarkDelivered(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.orders.UpdateDelivery(ctx, orderID, now); err != nil {
		return nil, fmt.Errorf("mise à jour livraison: %w", err)
	}

	order.IsDelivered = true
	order.DeliveredAt = &now
	return order, nil
}
