package database

import (
	"log"
	"sync"
)

// Requêtes des chemins chauds (login, fiche produit, stock). gocql prépare
// et met en cache chaque statement côté serveur à la première exécution ;
// les constantes sont partagées avec la couche repository pour que chaque
// chemin chaud ne corresponde qu'à un seul statement préparé.
const (
	StmtSelectUserIDByEmail = "SELECT user_id FROM users_by_email WHERE email = ?"
	StmtSelectUserByID      = "SELECT user_id, name, email, password, is_admin, created_at FROM users WHERE user_id = ?"

	StmtSelectProductByID = `SELECT product_id, name, slug, image, brand, category, description,
		price, count_in_stock, rating, num_reviews, created_at, updated_at FROM products WHERE product_id = ?`
	StmtSelectProductIDBySlug = "SELECT product_id FROM products_by_slug WHERE slug = ?"

	StmtSelectOrderByID = `SELECT order_id, user_id, user_name, user_email, items, shipping_address,
		payment_method, items_price, shipping_price, tax_price, total_price,
		is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at
		FROM orders WHERE order_id = ?`
)

var warmupOnce sync.Once

// InitPreparedStatements pré-chauffe le cache de prepared statements en
// exécutant une fois chaque requête chaude, pour éviter l'aller-retour de
// préparation sur la première requête utilisateur.
func InitPreparedStatements() {
	warmupOnce.Do(func() {
		if session, err := GetUsersSession(); err == nil {
			session.Query(StmtSelectUserIDByEmail, "warmup@localhost").Scan(new(string))
			session.Query(StmtSelectUserByID, "warmup").Iter().Close()
		} else {
			log.Printf("⚠️ Warmup statements users impossible: %v", err)
		}

		if session, err := GetCatalogSession(); err == nil {
			session.Query(StmtSelectProductIDBySlug, "warmup").Iter().Close()
		} else {
			log.Printf("⚠️ Warmup statements catalogue impossible: %v", err)
		}

		log.Println("✅ Prepared statements pré-chauffés")
	})
}
