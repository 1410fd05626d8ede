package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, first_name, last_name, email, phone, address, city, country, id_number, role, avatar_url, created_on, updated_on`

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedOn = now
	p.UpdatedOn = now
	if p.Role == "" {
		p.Role = domain.ProfileRoleRenter
	}
	query := `INSERT INTO profiles (id, first_name, last_name, email, phone, address, city, country, id_number, role, avatar_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.Address, p.City, p.Country,
		p.IDNumber, p.Role, p.AvatarURL, p.CreatedOn, p.UpdatedOn)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Address, &p.City, &p.Country,
		&p.IDNumber, &p.Role, &p.AvatarURL, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	p.UpdatedOn = time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE profiles SET first_name=$1, last_name=$2, email=$3, phone=$4, address=$5, city=$6,
	          country=$7, id_number=$8, role=$9, avatar_url=$10, updated_on=$11 WHERE id=$12`
	_, err := r.db.ExecContext(ctx, query,
		p.FirstName, p.LastName, p.Email, p.Phone, p.Address, p.City, p.Country,
		p.IDNumber, p.Role, p.AvatarURL, p.UpdatedOn, p.ID)
	return err
}
