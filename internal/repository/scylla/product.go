// Package scylla implémente les collaborateurs de persistance (catalogue,
// avis, commandes, utilisateurs) au-dessus des sessions gocql.
package scylla

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
)

type ProductRepository struct {
	session *gocql.Session
}

func NewProductRepository(session *gocql.Session) *ProductRepository {
	return &ProductRepository{session: session}
}

func (r *ProductRepository) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	var p models.Product
	err := r.session.Query(database.StmtSelectProductByID, id).WithContext(ctx).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Image, &p.Brand, &p.Category, &p.Description,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Produit"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture produit: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var id gocql.UUID
	err := r.session.Query(database.StmtSelectProductIDBySlug, slug).WithContext(ctx).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Produit"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture slug: %w", err)
	}
	return r.GetProduct(ctx, id)
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	iter := r.session.Query(`SELECT product_id, name, slug, image, brand, category, description,
		price, count_in_stock, rating, num_reviews, created_at, updated_at FROM products`).
		WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Slug, &p.Image, &p.Brand, &p.Category, &p.Description,
		&p.Price, &p.CountInStock, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture produits: %w", err)
	}
	return products, nil
}

// Insert crée le produit. L'unicité du slug est garantie par un insert LWT
// dans products_by_slug : si le slug est déjà pris, rien n'est écrit.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	var existing gocql.UUID
	applied, err := r.session.Query(
		"INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS",
		p.Slug, p.ID).WithContext(ctx).ScanCAS(&existing)
	if err != nil {
		return fmt.Errorf("réservation slug: %w", err)
	}
	if !applied {
		return &commerce.ConflictError{Message: "Un produit avec ce slug existe déjà"}
	}

	err = r.session.Query(`INSERT INTO products (product_id, name, slug, image, brand, category, description,
		price, count_in_stock, rating, num_reviews, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Image, p.Brand, p.Category, p.Description,
		p.Price, p.CountInStock, p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		// Libère le slug réservé pour ne pas laisser un index orphelin.
		r.session.Query("DELETE FROM products_by_slug WHERE slug = ?", p.Slug).Exec()
		return fmt.Errorf("création produit: %w", err)
	}
	return nil
}

// Update met à jour les champs éditables. rating et num_reviews n'en font
// pas partie : seuls les agrégats (SetRating) peuvent les toucher.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	current, err := r.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}

	if current.Slug != p.Slug {
		var existing gocql.UUID
		applied, err := r.session.Query(
			"INSERT INTO products_by_slug (slug, product_id) VALUES (?, ?) IF NOT EXISTS",
			p.Slug, p.ID).WithContext(ctx).ScanCAS(&existing)
		if err != nil {
			return fmt.Errorf("réservation slug: %w", err)
		}
		if !applied {
			return &commerce.ConflictError{Message: "Un produit avec ce slug existe déjà"}
		}
		r.session.Query("DELETE FROM products_by_slug WHERE slug = ?", current.Slug).Exec()
	}

	err = r.session.Query(`UPDATE products SET name = ?, slug = ?, image = ?, brand = ?, category = ?,
		description = ?, price = ?, count_in_stock = ?, updated_at = ? WHERE product_id = ?`,
		p.Name, p.Slug, p.Image, p.Brand, p.Category, p.Description,
		p.Price, p.CountInStock, time.Now(), p.ID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mise à jour produit: %w", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id gocql.UUID) error {
	p, err := r.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := r.session.Query("DELETE FROM products WHERE product_id = ?", id).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("suppression produit: %w", err)
	}
	r.session.Query("DELETE FROM products_by_slug WHERE slug = ?", p.Slug).Exec()
	// Les avis du produit partent avec lui.
	r.session.Query("DELETE FROM reviews_by_product WHERE product_id = ?", id).Exec()
	return nil
}

// CompareAndSetStock est le décrément conditionnel atomique : un UPDATE LWT
// qui n'écrit que si le stock vaut encore la valeur lue. C'est ce qui
// protège les checkouts concurrents contre les lost updates.
func (r *ProductRepository) CompareAndSetStock(ctx context.Context, id gocql.UUID, expected, newStock int) (bool, error) {
	var prev int
	applied, err := r.session.Query(
		"UPDATE products SET count_in_stock = ? WHERE product_id = ? IF count_in_stock = ?",
		newStock, id, expected).WithContext(ctx).ScanCAS(&prev)
	if err != nil {
		return false, fmt.Errorf("CAS stock: %w", err)
	}
	return applied, nil
}

func (r *ProductRepository) SetRating(ctx context.Context, id gocql.UUID, rating float64, numReviews int) error {
	err := r.session.Query(
		"UPDATE products SET rating = ?, num_reviews = ?, updated_at = ? WHERE product_id = ?",
		rating, numReviews, time.Now(), id).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mise à jour agrégats: %w", err)
	}
	return nil
}
