package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"libris_back_end/internal/commerce"
	"libris_back_end/internal/models"
	"libris_back_end/internal/repository/scylla"
	"libris_back_end/internal/utils"
)

// ListUsers renvoie tous les comptes (admin). Les mots de passe ne sortent
// jamais du modèle (json:"-").
func ListUsers(c *gin.Context) {
	repo := usersRepo(c)
	if repo == nil {
		return
	}

	users, err := repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lecture utilisateurs"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// GetUserByID renvoie un compte par identifiant (admin).
func GetUserByID(c *gin.Context) {
	repo := usersRepo(c)
	if repo == nil {
		return
	}

	u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// CreateUserAdmin crée un compte depuis le back-office, avec contrôle du
// flag admin (réservé aux admins, contrairement à Signup).
func CreateUserAdmin(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		IsAdmin  bool   `json:"isAdmin"`
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
		IsAdmin:   req.IsAdmin,
		CreatedAt: time.Now(),
	}

	if err := repo.Insert(c.Request.Context(), &u); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	log.Printf("✅ Compte créé par un admin: %s (admin=%v)", u.Email, u.IsAdmin)
	c.JSON(http.StatusCreated, u)
}

// UpdateUser modifie nom, email et flag admin d'un compte (admin).
func UpdateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  *bool  `json:"isAdmin"`
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
	u, err := repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": "Utilisateur introuvable"})
		return
	}

	if strings.TrimSpace(req.Name) != "" {
		u.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Email) != "" {
		u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
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
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, u)
}

// DeleteUser supprime un compte (admin). Un admin ne peut pas supprimer son
// propre compte.
func DeleteUser(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete your own account"})
		return
	}

	repo := usersRepo(c)
	if repo == nil {
		return
	}

	if err := repo.Delete(c.Request.Context(), targetID); err != nil {
		c.JSON(commerce.HTTPStatus(err), gin.H{"message": err.Error()})
		return
	}

	log.Printf("🗑️ Compte supprimé: %s", targetID)
	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
}
