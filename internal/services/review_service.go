package services

import (
	"errors"
	"log"
	"time"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound = errors.New("review not found")
	ErrNotReviewOwner = errors.New("review belongs to another user")
)

type ReviewService struct {
	Reviews  repositories.ReviewRepository
	Orders   repositories.OrderRepository
	Products repositories.ProductRepository
	Search   *SearchService
}

func NewReviewService(reviews repositories.ReviewRepository, orders repositories.OrderRepository, products repositories.ProductRepository, search *SearchService) *ReviewService {
	return &ReviewService{Reviews: reviews, Orders: orders, Products: products, Search: search}
}

// Create сохраняет отзыв. Пометка "구매 확정" ставится по факту доставленного
// заказа с этим товаром; один пользователь — один отзыв на товар (индекс в БД).
func (s *ReviewService) Create(rv *models.Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return ErrInvalidRating
	}
	verified, err := s.Orders.HasDeliveredItem(rv.UserID, rv.ProductID)
	if err != nil {
		return err
	}
	rv.IsVerifiedPurchase = verified

	if err := s.Reviews.Create(rv); err != nil {
		return err
	}
	if err := s.Products.IncrementReviewCount(rv.ProductID); err != nil {
		log.Printf("[review][create] review count update failed product_id=%d err=%v", rv.ProductID, err)
	}
	s.resync(rv.ProductID)
	return nil
}

func (s *ReviewService) ListByProduct(productID, limit, offset int) ([]*models.Review, int, error) {
	reviews, err := s.Reviews.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Reviews.CountByProduct(productID)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) Update(userID int, rv *models.Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return ErrInvalidRating
	}
	existing, err := s.Reviews.GetByID(rv.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrReviewNotFound
	}
	if existing.UserID != userID {
		return ErrNotReviewOwner
	}
	rv.UserID = userID
	rv.ProductID = existing.ProductID
	if rv.IsPublic && existing.PublishedAt == nil {
		now := time.Now()
		rv.PublishedAt = &now
	} else {
		rv.PublishedAt = existing.PublishedAt
	}
	return s.Reviews.Update(rv)
}

func (s *ReviewService) Delete(id, userID int) error {
	existing, err := s.Reviews.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrReviewNotFound
	}
	if existing.UserID != userID {
		return ErrNotReviewOwner
	}
	if err := s.Reviews.Delete(id, userID); err != nil {
		return err
	}
	s.resync(existing.ProductID)
	return nil
}

func (s *ReviewService) MarkHelpful(id int) error {
	return s.Reviews.IncrementHelpful(id)
}

// resync обновляет документ товара в поиске: review_count участвует в сортировке.
func (s *ReviewService) resync(productID int) {
	if s.Search == nil {
		return
	}
	p, err := s.Products.GetByID(productID)
	if err != nil || p == nil {
		return
	}
	if err := s.Search.IndexProduct(p); err != nil {
		log.Printf("[review][index] product resync failed id=%d err=%v", productID, err)
	}
}
