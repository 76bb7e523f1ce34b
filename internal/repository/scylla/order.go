package scylla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
)

// OrderRepository persiste les commandes. Les lignes, l'adresse et le reçu
// de paiement sont stockés en colonnes JSON, comme le panier l'est côté
// Redis : Scylla ne sert que de stockage, la forme vit dans les models.
type OrderRepository struct {
	session *gocql.Session
}

func NewOrderRepository(session *gocql.Session) *OrderRepository {
	return &OrderRepository{session: session}
}

func (r *OrderRepository) InsertOrder(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("sérialisation lignes: %w", err)
	}
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("sérialisation adresse: %w", err)
	}

	err = r.session.Query(`INSERT INTO orders (order_id, user_id, user_name, user_email, items, shipping_address,
		payment_method, items_price, shipping_price, tax_price, total_price,
		is_paid, is_delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, false, false, ?)`,
		order.ID, order.UserID, order.UserName, order.UserEmail, string(itemsJSON), string(addressJSON),
		order.PaymentMethod, order.ItemsPrice, order.ShippingPrice, order.TaxPrice, order.TotalPrice,
		order.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("insertion commande: %w", err)
	}

	err = r.session.Query("INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)",
		order.UserID, order.CreatedAt, order.ID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("indexation commande: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	var (
		o                      models.Order
		itemsJSON, addressJSON string
		paymentJSON            string
		paidAt, deliveredAt    time.Time
	)
	err := r.session.Query(database.StmtSelectOrderByID, id).WithContext(ctx).Scan(
		&o.ID, &o.UserID, &o.UserName, &o.UserEmail, &itemsJSON, &addressJSON,
		&o.PaymentMethod, &o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &paymentJSON, &o.IsDelivered, &deliveredAt, &o.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Commande"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("désérialisation lignes: %w", err)
	}
	if err := json.Unmarshal([]byte(addressJSON), &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("désérialisation adresse: %w", err)
	}
	if !paidAt.IsZero() {
		o.PaidAt = &paidAt
	}
	if !deliveredAt.IsZero() {
		o.DeliveredAt = &deliveredAt
	}
	if paymentJSON != "" {
		var result models.PaymentResult
		if err := json.Unmarshal([]byte(paymentJSON), &result); err == nil {
			o.PaymentResult = &result
		}
	}
	return &o, nil
}

// ListByUser retourne les commandes de l'utilisateur, les plus récentes en
// premier (ordre de clustering de orders_by_user).
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := r.session.Query("SELECT order_id FROM orders_by_user WHERE user_id = ?", userID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture index commandes: %w", err)
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetOrder(ctx, id)
		if err != nil {
			var nf *commerce.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// ListAll retourne toutes les commandes (admin), triées des plus récentes
// aux plus anciennes. Scan complet assumé : volumétrie d'un back-office.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	iter := r.session.Query("SELECT order_id FROM orders").WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture commandes: %w", err)
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetOrder(ctx, id)
		if err != nil {
			var nf *commerce.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, err
		}
		orders = append(orders, *o)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, id gocql.UUID, paidAt time.Time, result models.PaymentResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("sérialisation reçu: %w", err)
	}
	err = r.session.Query("UPDATE orders SET is_paid = true, paid_at = ?, payment_result = ? WHERE order_id = ?",
		paidAt, string(resultJSON), id).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mise à jour paiement: %w", err)
	}
	return nil
}

func (r *OrderRepository) UpdateDelivery(ctx context.Context, id gocql.UUID, deliveredAt time.Time) error {
	err := r.session.Query("UPDATE orders SET is_delivered = true, delivered_at = ? WHERE order_id = ?",
		deliveredAt, id).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mise à jour livraison: %w", err)
	}
	return nil
}
