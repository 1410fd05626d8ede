package service

import (
	"context"
	"errors"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

var ErrNotEquipmentOwner = errors.New("not the equipment owner")

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository) EquipmentService {
	return &equipmentService{equipmentRepo: equipmentRepo}
}

func (s *equipmentService) AddEquipment(ctx context.Context, equipment *domain.Equipment, imageURLs []string) error {
	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return err
	}
	for i, url := range imageURLs {
		img := &domain.EquipmentImage{
			EquipmentID:  equipment.ID,
			URL:          url,
			IsPrimary:    i == 0,
			DisplayOrder: int32(i),
		}
		if err := s.equipmentRepo.CreateImage(ctx, img); err != nil {
			logger.Warn("Failed to store equipment image", "equipment_id", equipment.ID, "error", err)
		}
	}
	logger.Info("Equipment listed", "equipment_id", equipment.ID, "owner_id", equipment.OwnerID)
	return nil
}

func (s *equipmentService) GetEquipment(ctx context.Context, id string) (*domain.Equipment, error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.equipmentRepo.GetImages(ctx, id)
	if err != nil {
		return nil, err
	}
	equipment.Images = images
	return equipment, nil
}

// UpdateEquipment applies an owner edit. Edits reset the approval state so
// the listing goes through moderation again before reappearing in search.
func (s *equipmentService) UpdateEquipment(ctx context.Context, equipment *domain.Equipment) error {
	existing, err := s.equipmentRepo.GetByID(ctx, equipment.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != equipment.OwnerID {
		return ErrNotEquipmentOwner
	}
	equipment.ApprovalStatus = domain.ApprovalStatusPending
	if err := s.equipmentRepo.Update(ctx, equipment); err != nil {
		return err
	}
	logger.Info("Equipment updated, moderation reset", "equipment_id", equipment.ID)
	return nil
}

func (s *equipmentService) ListMyEquipment(ctx context.Context, ownerID string, page, pageSize int32) ([]domain.Equipment, int32, error) {
	return s.equipmentRepo.ListByOwner(ctx, ownerID, page, pageSize)
}

func (s *equipmentService) ListAvailableEquipment(ctx context.Context, page, pageSize int32) ([]domain.Equipment, int32, error) {
	return s.equipmentRepo.ListAvailable(ctx, page, pageSize)
}

func (s *equipmentService) SetPrimaryImage(ctx context.Context, ownerID, equipmentID, imageID string) error {
	equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	if equipment.OwnerID != ownerID {
		return ErrNotEquipmentOwner
	}
	return s.equipmentRepo.SetPrimaryImage(ctx, equipmentID, imageID)
}
