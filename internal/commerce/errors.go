package commerce

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError : ressource absente (produit, avis, commande, utilisateur).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " introuvable"
}

// InsufficientStockError porte le nom du produit fautif et la quantité
// réellement disponible avant tout décrément.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Only %d available.", e.ProductName, e.Available)
}

// ValidationError : entrée malformée, rejetée avant toute mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError : l'appelant n'a pas le droit d'effectuer l'opération.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError : doublon sur une clé unique (slug, email).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// HTTPStatus traduit une erreur métier en code HTTP. Tout ce qui n'est pas
// une erreur métier connue devient un 500 générique.
func HTTPStatus(err error) int {
	var (
		notFound   *NotFoundError
		stock      *InsufficientStockError
		validation *ValidationError
		forbidden  *ForbiddenError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &stock), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
