package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"libris_back_end/internal/config"
	"libris_back_end/internal/database"
	"libris_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// ✅ Pré-chauffer les prepared statements côté Scylla
	database.InitPreparedStatements()

	// ✅ Pré-chauffer le cache Redis
	warmupRedisCache()

	r := gin.Default()
	routes.RegisterRoutes(r)

	port := config.Getenv("PORT", "8080")
	log.Println("🚀 Serveur Libris lancé sur le port", port)
	r.Run(":" + port)
}

// warmupRedisCache fait un ping pour établir la connexion avant la première
// requête.
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
