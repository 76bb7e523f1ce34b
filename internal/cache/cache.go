package cache

import (
	"context"
	"encoding/json"
	"time"

	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
)

const (
	ProductCacheTTL     = 10 * time.Minute
	ProductListCacheTTL = time.Hour
	CartTTL             = 30 * 24 * time.Hour // panier serveur, 30 jours
)

// GetProductList récupère la liste complète du catalogue depuis Redis.
func GetProductList(ctx context.Context) ([]models.Product, bool) {
	data, err := database.Redis.Get(ctx, "products:all").Result()
	if err != nil || data == "" {
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

func SetProductList(ctx context.Context, products []models.Product) {
	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, "products:all", data, ProductListCacheTTL)
	}
}

// GetProduct récupère une fiche produit depuis Redis.
func GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	data, err := database.Redis.Get(ctx, "product:"+productID).Result()
	if err != nil || data == "" {
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func SetProduct(ctx context.Context, p *models.Product) {
	if data, err := json.Marshal(p); err == nil {
		database.Redis.Set(ctx, "product:"+p.ID.String(), data, ProductCacheTTL)
	}
}

// InvalidateProduct purge la fiche produit et la liste du catalogue. À
// appeler après toute écriture catalogue (création, mise à jour, stock,
// agrégats d'avis).
func InvalidateProduct(ctx context.Context, productID string) {
	database.Redis.Del(ctx, "product:"+productID, "products:all")
}

func InvalidateProductList(ctx context.Context) {
	database.Redis.Del(ctx, "products:all")
}
