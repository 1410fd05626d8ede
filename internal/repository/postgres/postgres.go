package postgres

import (
	"database/sql"

	"equiprent-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProfileRepository
	repository.EquipmentRepository
	repository.BookingRepository
	repository.ContractRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ProfileRepository:      NewProfileRepository(db),
		EquipmentRepository:    NewEquipmentRepository(db),
		BookingRepository:      NewBookingRepository(db),
		ContractRepository:     NewContractRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
