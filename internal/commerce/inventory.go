package commerce

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gocql/gocql"

	"libris_back_end/internal/models"
)

// Nombre de tentatives CAS avant d'abandonner un décrément sous contention.
const maxStockRetries = 3

// StockDelta est un décrément appliqué, mémorisé pour pouvoir le re-créditer
// si la suite du checkout échoue.
type StockDelta struct {
	ProductID gocql.UUID
	Name      string
	Quantity  int
}

// Reconciler valide puis applique les décréments de stock d'une commande
// comme une unité logique : tout passe, ou rien n'est décrémenté.
type Reconciler struct {
	products ProductStore
}

func NewReconciler(products ProductStore) *Reconciler {
	return &Reconciler{products: products}
}

type stagedDecrement struct {
	productID gocql.UUID
	name      string
	quantity  int
	expected  int // stock lu pendant la validation
}

// Apply vérifie le stock de chaque ligne puis, seulement si toutes passent,
// applique les décréments un à un via CAS. Un produit inconnu est ignoré
// (comportement hérité, voir DESIGN.md). En cas d'échec en cours de commit,
// les décréments déjà appliqués sont re-crédités.
func (r *Reconciler) Apply(ctx context.Context, items []models.OrderItem) ([]StockDelta, error) {
	// Phase 1 : tout valider avant de toucher quoi que ce soit.
	var plan []stagedDecrement
	for _, item := range items {
		p, err := r.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				log.Printf("⚠️ Produit %s inconnu dans la commande, ligne ignorée", item.ProductID)
				continue
			}
			return nil, fmt.Errorf("lecture produit %s: %w", item.ProductID, err)
		}
		if p.CountInStock < item.Quantity {
			return nil, &InsufficientStockError{ProductName: p.Name, Available: p.CountInStock}
		}
		plan = append(plan, stagedDecrement{
			productID: item.ProductID,
			name:      p.Name,
			quantity:  item.Quantity,
			expected:  p.CountInStock,
		})
	}

	// Phase 2 : commit. Chaque décrément est un CAS "stock = attendu →
	// stock - quantité" ; si un checkout concurrent est passé entre la
	// validation et ici, on relit et on réessaie.
	var applied []StockDelta
	for _, st := range plan {
		if err := r.commitOne(ctx, st); err != nil {
			r.Release(ctx, applied)
			return nil, err
		}
		applied = append(applied, StockDelta{ProductID: st.productID, Name: st.name, Quantity: st.quantity})
	}

	return applied, nil
}

func (r *Reconciler) commitOne(ctx context.Context, st stagedDecrement) error {
	expected := st.expected
	for attempt := 0; attempt < maxStockRetries; attempt++ {
		ok, err := r.products.CompareAndSetStock(ctx, st.productID, expected, expected-st.quantity)
		if err != nil {
			return fmt.Errorf("décrément stock %s: %w", st.name, err)
		}
		if ok {
			return nil
		}

		// Perdu la course : relire le stock courant et re-valider.
		p, err := r.products.GetProduct(ctx, st.productID)
		if err != nil {
			return fmt.Errorf("relecture produit %s: %w", st.name, err)
		}
		if p.CountInStock < st.quantity {
			return &InsufficientStockError{ProductName: p.Name, Available: p.CountInStock}
		}
		expected = p.CountInStock
	}
	return fmt.Errorf("contention persistante sur le stock de %s", st.name)
}

// Release re-crédite des décréments déjà appliqués (compensation quand la
// persistance de la commande échoue après coup). Best-effort : un échec est
// signalé bruyamment mais ne masque pas l'erreur d'origine.
func (r *Reconciler) Release(ctx context.Context, deltas []StockDelta) {
	for _, d := range deltas {
		if err := r.releaseOne(ctx, d); err != nil {
			log.Printf("🚨 Re-crédit stock impossible pour %s (+%d): %v — stock à corriger manuellement",
				d.Name, d.Quantity, err)
		}
	}
}

func (r *Reconciler) releaseOne(ctx context.Context, d StockDelta) error {
	for attempt := 0; attempt < maxStockRetries; attempt++ {
		p, err := r.products.GetProduct(ctx, d.ProductID)
		if err != nil {
			return err
		}
		ok, err := r.products.CompareAndSetStock(ctx, d.ProductID, p.CountInStock, p.CountInStock+d.Quantity)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("contention persistante")
}
