package order

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"libris_back_end/internal/cache"
	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
	"libris_back_end/internal/repository/scylla"
	"libris_back_end/internal/utils"
)

func checkoutService(c *gin.Context) (*commerce.CheckoutService, *scylla.OrderRepository) {
	catalogSession, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil, nil
	}
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil, nil
	}

	orders := scylla.NewOrderRepository(ordersSession)
	return commerce.NewCheckoutService(scylla.NewProductRepository(catalogSession), orders), orders
}

func ordersRepo(c *gin.Context) *scylla.OrderRepository {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil
	}
	return scylla.NewOrderRepository(session)
}

// CreateOrder passe une commande pour l'utilisateur connecté : validation,
// décrément du stock, persistance, puis email de confirmation en tâche de
// fond.
func CreateOrder(c *gin.Context) {
	var req struct {
		OrderItems      []models.OrderItem     `json:"orderItems" binding:"required"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
		PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
		ItemsPrice      float64                `json:"itemsPrice"`
		ShippingPrice   float64                `json:"shippingPrice"`
		TaxPrice        float64                `json:"taxPrice"`
		TotalPrice      float64                `json:"totalPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données de commande invalides", "details": err.Error()})
		return
	}

	svc, _ := checkoutService(c)
	if svc == nil {
		return
	}

	ctx := c.Request.Context()
	placed, err := svc.PlaceOrder(ctx, commerce.CheckoutInput{
		UserID:          c.GetString("user_id"),
		UserName:        c.GetString("name"),
		UserEmail:       c.GetString("email"),
		Items:           req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	// Le stock a bougé : les fiches produit en cache sont périmées.
	for _, item := range req.OrderItems {
		cache.InvalidateProduct(ctx, item.ProductID.String())
	}

	go utils.SendOrderConfirmationEmail(*placed, c.GetString("email"))

	c.JSON(http.StatusCreated, gin.H{"message": "New Order Created", "order": placed})
}

// GetMyOrders liste les commandes de l'utilisateur connecté.
func GetMyOrders(c *gin.Context) {
	repo := ordersRepo(c)
	if repo == nil {
		return
	}

	orders, err := repo.ListByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrderByID retourne une commande. Seuls son propriétaire et les admins
// peuvent la consulter.
func GetOrderByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	repo := ordersRepo(c)
	if repo == nil {
		return
	}

	o, err := repo.GetOrder(c.Request.Context(), gocql.UUID(orderID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Commande introuvable"})
		return
	}

	if o.UserID != c.GetString("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès refusé à cette commande"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// GetAllOrders liste toutes les commandes, enrichies du nom et de l'email
// client (admin).
func GetAllOrders(c *gin.Context) {
	repo := ordersRepo(c)
	if repo == nil {
		return
	}

	orders, err := repo.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// PayOrder marque la commande payée avec le reçu transmis par le client.
func PayOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	var result models.PaymentResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reçu de paiement invalide"})
		return
	}

	svc, repo := checkoutService(c)
	if svc == nil {
		return
	}

	ctx := c.Request.Context()
	existing, err := repo.GetOrder(ctx, gocql.UUID(orderID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Commande introuvable"})
		return
	}
	if existing.UserID != c.GetString("user_id") && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès refusé à cette commande"})
		return
	}

	updated, err := svc.MarkPaid(ctx, gocql.UUID(orderID), result)
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order Paid", "order": updated})
}

// FakePayOrder marque la commande payée avec un reçu factice (admin).
func FakePayOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	svc, _ := checkoutService(c)
	if svc == nil {
		return
	}

	updated, err := svc.FakePay(c.Request.Context(), gocql.UUID(orderID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	log.Printf("💶 Paiement factice appliqué à la commande %s", updated.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Order Paid (fake)", "order": updated})
}

// DeliverOrder marque la commande livrée (admin).
func DeliverOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID commande invalide"})
		return
	}

	svc, _ := checkoutService(c)
	if svc == nil {
		return
	}

	updated, err := svc.MarkDelivered(c.Request.Context(), gocql.UUID(orderID))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order Delivered", "order": updated})
}
