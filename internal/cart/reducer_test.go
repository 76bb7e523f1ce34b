package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris_back_end/internal/models"
)

func item(productID string, qty int) Item {
	return Item{ProductID: productID, Name: "Livre " + productID, Price: 10, Quantity: qty}
}

func TestApplyAddItemAppends(t *testing.T) {
	s := Apply(State{}, AddItem{Item: item("p1", 1)})
	s = Apply(s, AddItem{Item: item("p2", 2)})

	require.Len(t, s.Items, 2)
	assert.Equal(t, "p1", s.Items[0].ProductID)
	assert.Equal(t, "p2", s.Items[1].ProductID)
}

func TestApplyAddItemReplacesExistingLine(t *testing.T) {
	s := Apply(State{}, AddItem{Item: item("p1", 1)})
	s = Apply(s, AddItem{Item: item("p2", 1)})
	s = Apply(s, AddItem{Item: item("p1", 5)})

	require.Len(t, s.Items, 2)
	assert.Equal(t, 5, s.Items[0].Quantity, "la quantité soumise remplace l'ancienne")
	assert.Equal(t, "p1", s.Items[0].ProductID, "la position dans le panier est conservée")
}

func TestApplyRemoveItem(t *testing.T) {
	s := Apply(State{}, AddItem{Item: item("p1", 1)})
	s = Apply(s, AddItem{Item: item("p2", 1)})
	s = Apply(s, RemoveItem{ProductID: "p1"})

	require.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].ProductID)

	// Retirer un produit absent est un no-op.
	s = Apply(s, RemoveItem{ProductID: "missing"})
	assert.Len(t, s.Items, 1)
}

func TestApplyClearKeepsIdentityAndPreferences(t *testing.T) {
	s := Apply(State{}, SignIn{Identity: Identity{UserID: "u1", Name: "Jeanne"}})
	s = Apply(s, AddItem{Item: item("p1", 1)})
	s = Apply(s, SavePaymentMethod{Method: "Virement bancaire"})
	s = Apply(s, Clear{})

	assert.Empty(t, s.Items)
	require.NotNil(t, s.Identity)
	assert.Equal(t, "u1", s.Identity.UserID)
	assert.Equal(t, "Virement bancaire", s.PaymentMethod)
}

func TestApplySignOutResetsEverything(t *testing.T) {
	s := Apply(State{}, SignIn{Identity: Identity{UserID: "u1"}})
	s = Apply(s, AddItem{Item: item("p1", 1)})
	s = Apply(s, SaveAddress{Address: models.ShippingAddress{FullName: "Jeanne Dupont", Address: "1 rue des Lilas"}})
	s = Apply(s, SignOut{})

	assert.Equal(t, State{}, s)
}

func TestApplySaveAddressAndPaymentMethod(t *testing.T) {
	addr := models.ShippingAddress{FullName: "Jeanne Dupont", Address: "1 rue des Lilas", City: "Bruxelles"}
	s := Apply(State{}, SaveAddress{Address: addr})
	s = Apply(s, SavePaymentMethod{Method: "PayPal"})

	require.NotNil(t, s.ShippingAddress)
	assert.Equal(t, addr, *s.ShippingAddress)
	assert.Equal(t, "PayPal", s.PaymentMethod)
}

func TestApplyNeverMutatesInput(t *testing.T) {
	original := Apply(State{}, AddItem{Item: item("p1", 1)})
	snapshot := original.Items[0]

	_ = Apply(original, AddItem{Item: item("p1", 9)})
	_ = Apply(original, RemoveItem{ProductID: "p1"})

	require.Len(t, original.Items, 1)
	assert.Equal(t, snapshot, original.Items[0])
}
