package services

import (
	"errors"

	"bijou/internal/models"
	"bijou/internal/repositories"
	"bijou/internal/utils"
)

var ErrInvalidRecipientPhone = errors.New("invalid recipient phone")

// DeliveryService — адресная книга пользователя.
type DeliveryService struct {
	Repo repositories.DeliveryRepository
}

func NewDeliveryService(repo repositories.DeliveryRepository) *DeliveryService {
	return &DeliveryService{Repo: repo}
}

func (s *DeliveryService) Create(d *models.Delivery) error {
	d.Phone = utils.NormalizePhone(d.Phone)
	if !utils.IsValidMobile(d.Phone) {
		return ErrInvalidRecipientPhone
	}
	return s.Repo.Create(d)
}

func (s *DeliveryService) ListByUser(userID int) ([]*models.Delivery, error) {
	return s.Repo.ListByUser(userID)
}

func (s *DeliveryService) Update(userID int, d *models.Delivery) error {
	existing, err := s.Repo.GetByID(d.ID)
	if err != nil {
		return err
	}
	if existing == nil || existing.UserID != userID {
		return ErrDeliveryNotFound
	}
	d.UserID = userID
	d.Phone = utils.NormalizePhone(d.Phone)
	if !utils.IsValidMobile(d.Phone) {
		return ErrInvalidRecipientPhone
	}
	return s.Repo.Update(d)
}

func (s *DeliveryService) Delete(id, userID int) error {
	return s.Repo.Delete(id, userID)
}

func (s *DeliveryService) SetDefault(id, userID int) error {
	return s.Repo.SetDefault(id, userID)
}
