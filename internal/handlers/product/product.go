package product

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"libris_back_end/internal/cache"
	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
	"libris_back_end/internal/repository/scylla"
	"libris_back_end/internal/services"
)

func catalogRepo(c *gin.Context) *scylla.ProductRepository {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil
	}
	return scylla.NewProductRepository(session)
}

// GetAllProducts liste tout le catalogue (cache Redis, URLs signées MinIO).
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, ok := cache.GetProductList(ctx); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	products, err := repo.ListAll(ctx)
	if err != nil {
		log.Printf("❌ Erreur lecture catalogue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture produits"})
		return
	}

	for i := range products {
		signImage(c, &products[i])
	}

	cache.SetProductList(ctx, products)
	c.JSON(http.StatusOK, products)
}

// GetProductByID retourne une fiche produit par identifiant.
func GetProductByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	ctx := c.Request.Context()
	if cached, ok := cache.GetProduct(ctx, productID.String()); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	p, err := repo.GetProduct(ctx, gocql.UUID(productID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Produit introuvable"})
		return
	}

	signImage(c, p)
	cache.SetProduct(ctx, p)
	c.JSON(http.StatusOK, p)
}

// GetProductBySlug retourne une fiche produit par slug (URL lisible).
func GetProductBySlug(c *gin.Context) {
	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	p, err := repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Produit introuvable"})
		return
	}

	signImage(c, p)
	c.JSON(http.StatusOK, p)
}

// SearchProducts interroge Elasticsearch, avec repli sur un scan Scylla
// filtré en mémoire si l'index est vide ou indisponible.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paramètre 'q' manquant"})
		return
	}

	if results, err := services.SearchProducts(query); err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	products, err := repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture produits"})
		return
	}

	matched := []models.Product{}
	for _, p := range products {
		if containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query) ||
			containsIgnoreCase(p.Brand, query) || containsIgnoreCase(p.Category, query) {
			signImage(c, &p)
			matched = append(matched, p)
		}
	}

	c.JSON(http.StatusOK, matched)
}

// CreateProduct crée un produit (admin). Le slug doit être unique ; les
// agrégats d'avis démarrent à zéro quoi que le client envoie.
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides", "details": err.Error()})
		return
	}

	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Slug) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Les champs 'name' et 'slug' sont obligatoires"})
		return
	}
	if p.Price < 0 || p.CountInStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Prix et stock doivent être positifs"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.Rating = 0
	p.NumReviews = 0
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	if err := repo.Insert(c.Request.Context(), &p); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	go services.IndexProduct(p)
	cache.InvalidateProductList(c.Request.Context())

	log.Printf("📚 Produit créé: %s (%s)", p.Name, p.ID)
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct met à jour les champs éditables d'un produit (admin).
// rating et numReviews sont ignorés : seuls les avis les font bouger.
func UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides", "details": err.Error()})
		return
	}
	p.ID = gocql.UUID(productID)

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	ctx := c.Request.Context()
	if err := repo.Update(ctx, &p); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	updated, err := repo.GetProduct(ctx, p.ID)
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Produit introuvable"})
		return
	}

	go services.IndexProduct(*updated)
	cache.InvalidateProduct(ctx, p.ID.String())

	c.JSON(http.StatusOK, updated)
}

// DeleteProduct supprime un produit et ses avis (admin).
func DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	ctx := c.Request.Context()
	if err := repo.Delete(ctx, gocql.UUID(productID)); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	go services.RemoveProduct(productID.String())
	cache.InvalidateProduct(ctx, productID.String())

	log.Printf("🗑️ Produit supprimé: %s", productID)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// UploadProductImage téléverse la couverture dans MinIO et met à jour la
// fiche produit avec la clé objet (admin).
func UploadProductImage(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fichier 'image' manquant"})
		return
	}

	repo := catalogRepo(c)
	if repo == nil {
		return
	}

	ctx := c.Request.Context()
	p, err := repo.GetProduct(ctx, gocql.UUID(productID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Produit introuvable"})
		return
	}

	key, err := services.UploadCoverImage(ctx, productID.String(), file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur upload image"})
		return
	}

	p.Image = key
	if err := repo.Update(ctx, p); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}
	cache.InvalidateProduct(ctx, productID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Image téléversée", "image": key})
}

func signImage(c *gin.Context, p *models.Product) {
	if p.Image == "" {
		return
	}
	if signed, err := services.GenerateSignedURL(c.Request.Context(), p.Image, 24*time.Hour); err == nil {
		p.Image = signed
	}
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
