package user

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"libris_back_end/internal/cache"
	"libris_back_end/internal/cart"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
)

func cartKey(c *gin.Context) string {
	return "cart:" + c.GetString("user_id")
}

func loadCart(c *gin.Context) cart.State {
	data, err := database.Redis.Get(c.Request.Context(), cartKey(c)).Result()
	if err != nil || data == "" {
		return cart.State{}
	}
	var state cart.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return cart.State{}
	}
	return state
}

func saveCart(c *gin.Context, state cart.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return database.Redis.Set(c.Request.Context(), cartKey(c), data, cache.CartTTL).Err()
}

// cartEventEnvelope est l'événement tel que soumis par le client : un type
// discriminant et les champs utiles selon le type.
type cartEventEnvelope struct {
	Type      string                  `json:"type" binding:"required"`
	Item      *cart.Item              `json:"item,omitempty"`
	ProductID string                  `json:"productId,omitempty"`
	Identity  *cart.Identity          `json:"identity,omitempty"`
	Address   *models.ShippingAddress `json:"address,omitempty"`
	Method    string                  `json:"method,omitempty"`
}

func (e cartEventEnvelope) toEvent() (cart.Event, bool) {
	switch e.Type {
	case "CART_ADD_ITEM":
		if e.Item == nil {
			return nil, false
		}
		return cart.AddItem{Item: *e.Item}, true
	case "CART_REMOVE_ITEM":
		if e.ProductID == "" {
			return nil, false
		}
		return cart.RemoveItem{ProductID: e.ProductID}, true
	case "CART_CLEAR":
		return cart.Clear{}, true
	case "USER_SIGNIN":
		if e.Identity == nil {
			return nil, false
		}
		return cart.SignIn{Identity: *e.Identity}, true
	case "USER_SIGNOUT":
		return cart.SignOut{}, true
	case "SAVE_SHIPPING_ADDRESS":
		if e.Address == nil {
			return nil, false
		}
		return cart.SaveAddress{Address: *e.Address}, true
	case "SAVE_PAYMENT_METHOD":
		if e.Method == "" {
			return nil, false
		}
		return cart.SavePaymentMethod{Method: e.Method}, true
	default:
		return nil, false
	}
}

// GetCart renvoie le panier serveur de l'utilisateur connecté. Un panier
// jamais touché (ou expiré) est un panier vide.
func GetCart(c *gin.Context) {
	state := loadCart(c)
	if state.Items == nil {
		state.Items = []cart.Item{}
	}
	c.JSON(http.StatusOK, state)
}

// DispatchCartEvent applique un événement au panier et persiste le nouvel
// état. Toute la logique de transition vit dans le réducteur pur ; ici on ne
// fait que charger, appliquer, sauver.
func DispatchCartEvent(c *gin.Context) {
	var envelope cartEventEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Événement invalide", "details": err.Error()})
		return
	}

	event, ok := envelope.toEvent()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Type d'événement inconnu ou champs manquants"})
		return
	}

	state := cart.Apply(loadCart(c), event)
	if err := saveCart(c, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur sauvegarde panier"})
		return
	}

	if state.Items == nil {
		state.Items = []cart.Item{}
	}
	c.JSON(http.StatusOK, state)
}

// ClearCart supprime le panier serveur (appelé après un checkout réussi).
func ClearCart(c *gin.Context) {
	if err := database.Redis.Del(c.Request.Context(), cartKey(c)).Err(); err != nil && err != redis.Nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur suppression panier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
