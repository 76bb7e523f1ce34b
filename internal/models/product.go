package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID           gocql.UUID `json:"_id" db:"product_id"`
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Image        string     `json:"image" db:"image"`
	Brand        string     `json:"brand" db:"brand"`
	Category     string     `json:"category" db:"category"`
	Description  string     `json:"description" db:"description"`
	Price        float64    `json:"price" db:"price"`
	CountInStock int        `json:"countInStock" db:"count_in_stock"`
	Rating       float64    `json:"rating" db:"rating"`          // dérivé des avis, jamais éditable directement
	NumReviews   int        `json:"numReviews" db:"num_reviews"` // dérivé des avis, jamais éditable directement
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
