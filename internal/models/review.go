package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Review struct {
	ID        gocql.UUID `json:"_id" db:"review_id"`
	ProductID gocql.UUID `json:"product" db:"product_id"`
	UserID    string     `json:"user" db:"user_id"`
	UserName  string     `json:"name" db:"user_name"` // nom figé au moment de la soumission
	Rating    int        `json:"rating" db:"rating"`  // 1-5
	Comment   string     `json:"comment" db:"comment"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
