package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	u.CreatedOn = now
	u.UpdatedOn = now
	query := `INSERT INTO users (id, email, password_hash, firebase_uid, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.FirebaseUID, u.CreatedOn, u.UpdatedOn)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *userRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.getBy(ctx, `firebase_uid = $1`, uid)
}

func (r *userRepository) getBy(ctx context.Context, where, arg string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, password_hash, firebase_uid, created_on, updated_on FROM users WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirebaseUID, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedOn = time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE users SET email=$1, password_hash=$2, firebase_uid=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, u.Email, u.PasswordHash, u.FirebaseUID, u.UpdatedOn, u.ID)
	return err
}
