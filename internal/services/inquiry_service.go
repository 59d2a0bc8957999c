package services

import (
	"errors"
	"time"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var (
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrNotInquiryOwner = errors.New("inquiry belongs to another user")
	ErrInquiryClosed   = errors.New("inquiry is closed")
	ErrInvalidCategory = errors.New("unknown inquiry category")
)

var inquiryCategories = map[string]bool{
	models.InquiryProduct:  true,
	models.InquiryDelivery: true,
	models.InquiryOrder:    true,
	models.InquiryReturn:   true,
	models.InquiryEtc:      true,
}

// InquiryService — вопросы 1:1 и Q&A по товарам.
type InquiryService struct {
	Repo repositories.InquiryRepository
}

func NewInquiryService(repo repositories.InquiryRepository) *InquiryService {
	return &InquiryService{Repo: repo}
}

func (s *InquiryService) Create(iq *models.Inquiry) error {
	if !inquiryCategories[iq.Category] {
		return ErrInvalidCategory
	}
	iq.Status = models.InquiryPending
	return s.Repo.Create(iq)
}

// GetForUser отдаёт обращение владельцу или любое публичное.
func (s *InquiryService) GetForUser(userID, inquiryID int) (*models.Inquiry, error) {
	iq, err := s.Repo.GetByID(inquiryID)
	if err != nil {
		return nil, err
	}
	if iq == nil {
		return nil, ErrInquiryNotFound
	}
	if !iq.IsPublic && (iq.UserID == nil || *iq.UserID != userID) {
		return nil, ErrNotInquiryOwner
	}
	return iq, nil
}

func (s *InquiryService) ListByUser(userID, limit, offset int) ([]*models.Inquiry, error) {
	return s.Repo.ListByUser(userID, limit, offset)
}

func (s *InquiryService) ListByStatus(status string, limit, offset int) ([]*models.Inquiry, error) {
	return s.Repo.ListByStatus(status, limit, offset)
}

// Answer — ответ сотрудника: добавляет сообщение и переводит в ANSWERED.
func (s *InquiryService) Answer(inquiryID, staffID int, message string) (*models.Inquiry, error) {
	iq, err := s.Repo.GetByID(inquiryID)
	if err != nil {
		return nil, err
	}
	if iq == nil {
		return nil, ErrInquiryNotFound
	}
	if iq.Status == models.InquiryClosed {
		return nil, ErrInquiryClosed
	}

	m := &models.InquiryMessage{
		InquiryID:    inquiryID,
		AuthorID:     &staffID,
		IsStaffReply: true,
		Message:      message,
	}
	if err := s.Repo.AddMessage(m); err != nil {
		return nil, err
	}
	if err := s.Repo.MarkAnswered(inquiryID, staffID, time.Now()); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(inquiryID)
}

// AddFollowUp — дополнительное сообщение автора обращения.
func (s *InquiryService) AddFollowUp(userID, inquiryID int, message string) error {
	iq, err := s.Repo.GetByID(inquiryID)
	if err != nil {
		return err
	}
	if iq == nil {
		return ErrInquiryNotFound
	}
	if iq.UserID == nil || *iq.UserID != userID {
		return ErrNotInquiryOwner
	}
	if iq.Status == models.InquiryClosed {
		return ErrInquiryClosed
	}
	return s.Repo.AddMessage(&models.InquiryMessage{
		InquiryID: inquiryID,
		AuthorID:  &userID,
		Message:   message,
	})
}

func (s *InquiryService) Close(inquiryID int) error {
	iq, err := s.Repo.GetByID(inquiryID)
	if err != nil {
		return err
	}
	if iq == nil {
		return ErrInquiryNotFound
	}
	return s.Repo.Close(inquiryID)
}
