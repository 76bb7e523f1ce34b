package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"libris_back_end/internal/database"
	"libris_back_end/internal/middleware"
	"libris_back_end/internal/models"
	"libris_back_end/internal/repository/scylla"
	"libris_back_end/internal/utils"
)

func usersRepo(c *gin.Context) *scylla.UserRepository {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur connexion base de données"})
		c.Abort()
		return nil
	}
	return scylla.NewUserRepository(session)
}

// authPayload est la réponse des endpoints d'authentification : l'identité
// publique plus un token frais.
func authPayload(u *models.User, token string) gin.H {
	return gin.H{
		"_id":     u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"isAdmin": u.IsAdmin,
		"token":   token,
	}
}

// Signin authentifie par email et mot de passe et renvoie un token JWT.
func Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email et mot de passe requis"})
		return
	}

	repo := usersRepo(c)
	if repo == nil {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe invalide"})
		return
	}

	if !utils.VerifyPassword(req.Password, u.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email ou mot de passe invalide"})
		return
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	middleware.ResetLoginAttempts(email)
	log.Printf("✅ Connexion: %s", email)
	c.JSON(http.StatusOK, authPayload(u, token))
}

// Signup crée un compte client. Les comptes admin ne se créent jamais par
// cette route.
func Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nom, email et mot de passe (6 caractères min) requis"})
		return
	}

	repo := usersRepo(c)
	if repo == nil {
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur traitement mot de passe"})
		return
	}

	u := models.User{
		ID:        scylla.NewUserID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		IsAdmin:   false,
		CreatedAt: time.Now(),
	}

	if err := repo.Insert(c.Request.Context(), &u); err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Un compte avec cet email existe déjà"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	log.Printf("✅ Nouveau compte: %s", u.Email)
	c.JSON(http.StatusCreated, authPayload(&u, token))
}

// UpdateProfile met à jour nom, email et mot de passe de l'utilisateur
// connecté et renvoie un token frais reflétant la nouvelle identité.
func UpdateProfile(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	repo := usersRepo(c)
	if repo == nil {
		return
	}

	ctx := c.Request.Context()
	u, err := repo.GetByID(ctx, c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	if strings.TrimSpace(req.Name) != "" {
		u.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Email) != "" {
		u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Le mot de passe doit contenir au moins 6 caractères"})
			return
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur traitement mot de passe"})
			return
		}
		u.Password = hashed
	}

	if err := repo.Update(ctx, u); err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		return
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, authPayload(u, token))
}
