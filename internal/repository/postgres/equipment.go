package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `id, owner_id, title, description, category, subcategory,
	daily_price, weekly_price, deposit_amount, city, country, address, status, approval_status, created_on, updated_on`

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	e.CreatedOn = now
	e.UpdatedOn = now
	if e.Status == "" {
		e.Status = domain.EquipmentStatusAvailable
	}
	e.ApprovalStatus = domain.ApprovalStatusPending
	query := `INSERT INTO equipment (id, owner_id, title, description, category, subcategory,
	          daily_price, weekly_price, deposit_amount, city, country, address, status, approval_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.OwnerID, e.Title, e.Description, e.Category, e.Subcategory,
		e.DailyPrice, e.WeeklyPrice, e.DepositAmount, e.City, e.Country, e.Address,
		e.Status, e.ApprovalStatus, e.CreatedOn, e.UpdatedOn)
	return err
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	return scanEquipment(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	e.UpdatedOn = time.Now().UTC().Format(time.RFC3339)
	query := `UPDATE equipment SET title=$1, description=$2, category=$3, subcategory=$4,
	          daily_price=$5, weekly_price=$6, deposit_amount=$7, city=$8, country=$9, address=$10,
	          status=$11, approval_status=$12, updated_on=$13 WHERE id=$14`
	_, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.Category, e.Subcategory,
		e.DailyPrice, e.WeeklyPrice, e.DepositAmount, e.City, e.Country, e.Address,
		e.Status, e.ApprovalStatus, e.UpdatedOn, e.ID)
	return err
}

func (r *equipmentRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error) {
	return r.list(ctx, `WHERE owner_id = $1`, page, pageSize, ownerID)
}

func (r *equipmentRepository) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error) {
	return r.list(ctx, `WHERE status = $1 AND approval_status = $2`, page, pageSize,
		string(domain.EquipmentStatusAvailable), string(domain.ApprovalStatusApproved))
}

func (r *equipmentRepository) list(ctx context.Context, where string, page, pageSize int32, args ...interface{}) ([]domain.Equipment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM equipment ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + equipmentColumns + ` FROM equipment ` + where +
		` ORDER BY created_on DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, count, rows.Err()
}

func (r *equipmentRepository) CreateImage(ctx context.Context, img *domain.EquipmentImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	img.CreatedOn = time.Now().UTC()
	query := `INSERT INTO equipment_images (id, equipment_id, url, is_primary, display_order, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, img.ID, img.EquipmentID, img.URL, img.IsPrimary, img.DisplayOrder, img.CreatedOn)
	return err
}

func (r *equipmentRepository) GetImages(ctx context.Context, equipmentID string) ([]domain.EquipmentImage, error) {
	query := `SELECT id, equipment_id, url, is_primary, display_order, created_on
	          FROM equipment_images WHERE equipment_id = $1 ORDER BY display_order ASC`
	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.EquipmentImage
	for rows.Next() {
		var img domain.EquipmentImage
		if err := rows.Scan(&img.ID, &img.EquipmentID, &img.URL, &img.IsPrimary, &img.DisplayOrder, &img.CreatedOn); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *equipmentRepository) SetPrimaryImage(ctx context.Context, equipmentID, imageID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE equipment_images SET is_primary = false WHERE equipment_id = $1`, equipmentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE equipment_images SET is_primary = true WHERE id = $1 AND equipment_id = $2`, imageID, equipmentID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *equipmentRepository) DeleteImage(ctx context.Context, imageID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM equipment_images WHERE id = $1`, imageID)
	return err
}

func scanEquipment(row rowScanner) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.Category, &e.Subcategory,
		&e.DailyPrice, &e.WeeklyPrice, &e.DepositAmount, &e.City, &e.Country, &e.Address,
		&e.Status, &e.ApprovalStatus, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
