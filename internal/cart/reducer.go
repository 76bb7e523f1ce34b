// Package cart implémente l'état du panier comme une table de transitions
// explicite : une fonction pure (état, événement) → état. La persistance
// (Redis) est un effet de bord du handler, jamais du réducteur.
package cart

import "libris_back_end/internal/models"

type Item struct {
	ProductID    string  `json:"product"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	CountInStock int     `json:"countInStock"`
}

type Identity struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type State struct {
	Items           []Item                  `json:"items"`
	Identity        *Identity               `json:"identity,omitempty"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   string                  `json:"paymentMethod,omitempty"`
}

// Event est l'union étiquetée des événements du panier.
type Event interface {
	eventType() string
}

type AddItem struct {
	Item Item
}

type RemoveItem struct {
	ProductID string
}

type Clear struct{}

type SignIn struct {
	Identity Identity
}

type SignOut struct{}

type SaveAddress struct {
	Address models.ShippingAddress
}

type SavePaymentMethod struct {
	Method string
}

func (AddItem) eventType() string           { return "CART_ADD_ITEM" }
func (RemoveItem) eventType() string        { return "CART_REMOVE_ITEM" }
func (Clear) eventType() string             { return "CART_CLEAR" }
func (SignIn) eventType() string            { return "USER_SIGNIN" }
func (SignOut) eventType() string           { return "USER_SIGNOUT" }
func (SaveAddress) eventType() string       { return "SAVE_SHIPPING_ADDRESS" }
func (SavePaymentMethod) eventType() string { return "SAVE_PAYMENT_METHOD" }

// Apply replie un événement sur l'état et retourne le nouvel état, sans
// jamais modifier l'entrée. Un événement inconnu laisse l'état inchangé.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case AddItem:
		// Un article déjà présent est remplacé (la quantité soumise fait
		// foi), sinon il est ajouté en fin de panier.
		items := make([]Item, 0, len(s.Items)+1)
		replaced := false
		for _, it := range s.Items {
			if it.ProductID == ev.Item.ProductID {
				items = append(items, ev.Item)
				replaced = true
			} else {
				items = append(items, it)
			}
		}
		if !replaced {
			items = append(items, ev.Item)
		}
		s.Items = items
		return s

	case RemoveItem:
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ProductID != ev.ProductID {
				items = append(items, it)
			}
		}
		s.Items = items
		return s

	case Clear:
		s.Items = nil
		return s

	case SignIn:
		id := ev.Identity
		s.Identity = &id
		return s

	case SignOut:
		// Déconnexion : panier vidé, identité et préférences de commande
		// oubliées.
		return State{}

	case SaveAddress:
		addr := ev.Address
		s.ShippingAddress = &addr
		return s

	case SavePaymentMethod:
		s.PaymentMethod = ev.Method
		return s

	default:
		return s
	}
}
