package scylla

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"

	"libris_back_end/internal/commerce"
	"libris_back_end/internal/database"
	"libris_back_end/internal/models"
)

type UserRepository struct {
	session *gocql.Session
}

func NewUserRepository(session *gocql.Session) *UserRepository {
	return &UserRepository{session: session}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.session.Query(database.StmtSelectUserByID, userID).WithContext(ctx).Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Utilisateur"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture utilisateur: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var userID string
	err := r.session.Query(database.StmtSelectUserIDByEmail, email).WithContext(ctx).Scan(&userID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, &commerce.NotFoundError{Resource: "Utilisateur"}
	}
	if err != nil {
		return nil, fmt.Errorf("lecture email: %w", err)
	}
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	iter := r.session.Query("SELECT user_id, name, email, is_admin, created_at FROM users").
		WithContext(ctx).Iter()

	var users []models.User
	var u models.User
	for iter.Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.CreatedAt) {
		users = append(users, u)
		u = models.User{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture utilisateurs: %w", err)
	}
	return users, nil
}

// Insert crée l'utilisateur. L'unicité de l'email passe par un insert LWT
// dans users_by_email, comme l'unicité des slugs côté catalogue.
func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	var existing string
	applied, err := r.session.Query(
		"INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS",
		u.Email, u.ID).WithContext(ctx).ScanCAS(&existing)
	if err != nil {
		return fmt.Errorf("réservation email: %w", err)
	}
	if !applied {
		return &commerce.ConflictError{Message: "Un compte avec cet email existe déjà"}
	}

	err = r.session.Query(`INSERT INTO users (user_id, name, email, password, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Password, u.IsAdmin, u.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		r.session.Query("DELETE FROM users_by_email WHERE email = ?", u.Email).Exec()
		return fmt.Errorf("création utilisateur: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	current, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}

	if current.Email != u.Email {
		var existing string
		applied, err := r.session.Query(
			"INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS",
			u.Email, u.ID).WithContext(ctx).ScanCAS(&existing)
		if err != nil {
			return fmt.Errorf("réservation email: %w", err)
		}
		if !applied {
			return &commerce.ConflictError{Message: "Un compte avec cet email existe déjà"}
		}
		r.session.Query("DELETE FROM users_by_email WHERE email = ?", current.Email).Exec()
	}

	err = r.session.Query(
		"UPDATE users SET name = ?, email = ?, password = ?, is_admin = ? WHERE user_id = ?",
		u.Name, u.Email, u.Password, u.IsAdmin, u.ID).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("mise à jour utilisateur: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := r.session.Query("DELETE FROM users WHERE user_id = ?", userID).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("suppression utilisateur: %w", err)
	}
	r.session.Query("DELETE FROM users_by_email WHERE email = ?", u.Email).Exec()
	return nil
}

// NewUserID génère l'identifiant texte d'un nouvel utilisateur.
func NewUserID() string {
	return gocql.TimeUUID().String()
}
