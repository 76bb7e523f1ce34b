package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"libris_back_end/internal/cache"
	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/repository/scylla"
)

func reviewService(c *gin.Context) *commerce.ReviewService {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil
	}
	return commerce.NewReviewService(
		scylla.NewProductRepository(session),
		scylla.NewReviewRepository(session),
	)
}

// GetProductReviews liste les avis d'un produit, du plus récent au plus ancien.
func GetProductReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		return
	}

	reviews, err := scylla.NewReviewRepository(session).ListReviews(c.Request.Context(), gocql.UUID(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture avis"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview ajoute un avis au nom de l'utilisateur connecté. Le nom
// d'affichage est figé depuis le token au moment de la soumission.
func CreateReview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides", "details": err.Error()})
		return
	}

	svc := reviewService(c)
	if svc == nil {
		return
	}

	ctx := c.Request.Context()
	review, err := svc.Create(ctx, commerce.ReviewInput{
		ProductID: gocql.UUID(productID),
		UserID:    c.GetString("user_id"),
		UserName:  c.GetString("name"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	cache.InvalidateProduct(ctx, productID.String())
	c.JSON(http.StatusCreated, gin.H{"message": "Avis ajouté", "review": review})
}

// DeleteReview supprime un avis (auteur ou admin).
func DeleteReview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID produit invalide"})
		return
	}
	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID avis invalide"})
		return
	}

	svc := reviewService(c)
	if svc == nil {
		return
	}

	ctx := c.Request.Context()
	err = svc.Delete(ctx, gocql.UUID(productID), gocql.UUID(reviewID),
		c.GetString("user_id"), c.GetBool("is_admin"))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	cache.InvalidateProduct(ctx, productID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Avis supprimé"})
}
