package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// UserRepository handles user directory database operations
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user
func (r *UserRepository) Create(tx *sql.Tx, u *models.User) error {
	query := `INSERT INTO users (id, email, name, role, department) VALUES (?, ?, ?, ?, ?)`
	if _, err := exec(tx, r.db, query, u.ID, u.Email, u.Name, u.Role, u.Department); err != nil {
		r.logger.Error("Failed to create user", zap.String("email", u.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID; returns nil when not found
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne(`SELECT id, email, name, role, department, created_at FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email; returns nil when not found
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`SELECT id, email, name, role, department, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(query, arg string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Department, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// List retrieves all users
func (r *UserRepository) List() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT id, email, name, role, department, created_at FROM users ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Department, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
