package services

import (
	"fmt"
	"log"
	"time"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

const homeSectionSize = 10

// HomePayload — набор блоков главной страницы.
type HomePayload struct {
	Banners         []*models.Banner  `json:"banners"`
	Notices         []*models.Notice  `json:"notices"`
	NewProducts     []*models.Product `json:"new_products"`
	SaleProducts    []*models.Product `json:"sale_products"`
	PopularProducts []*models.Product `json:"popular_products"`
}

type ProductService struct {
	Repo    repositories.ProductRepository
	Notices repositories.NoticeRepository
	Search  *SearchService
}

func NewProductService(repo repositories.ProductRepository, notices repositories.NoticeRepository, search *SearchService) *ProductService {
	return &ProductService{Repo: repo, Notices: notices, Search: search}
}

// syncIndex — поиск не должен ломать CRUD: ошибки индексации логируем и едем дальше.
func (s *ProductService) syncIndex(p *models.Product) {
	if s.Search == nil {
		return
	}
	opts, err := s.Repo.ListOptions(p.ID)
	if err != nil {
		log.Printf("[product][index] load options failed id=%d err=%v", p.ID, err)
		return
	}
	p.Options = opts
	if err := s.Search.IndexProduct(p); err != nil {
		log.Printf("[product][index] sync failed id=%d err=%v", p.ID, err)
	}
}

func (s *ProductService) Create(p *models.Product) error {
	if err := s.Repo.Create(p); err != nil {
		return err
	}
	s.syncIndex(p)
	return nil
}

func (s *ProductService) Update(p *models.Product) error {
	if err := s.Repo.Update(p); err != nil {
		return err
	}
	fresh, err := s.Repo.GetByID(p.ID)
	if err != nil {
		return err
	}
	if fresh != nil {
		s.syncIndex(fresh)
	}
	return nil
}

func (s *ProductService) Delete(id int) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	if s.Search != nil {
		if err := s.Search.DeleteProduct(id); err != nil {
			log.Printf("[product][index] delete failed id=%d err=%v", id, err)
		}
	}
	return nil
}

func (s *ProductService) GetByID(id int) (*models.Product, error) {
	return s.Repo.GetByID(id)
}

// GetDetail возвращает карточку товара и инкрементит счётчик просмотров.
func (s *ProductService) GetDetail(id int) (*models.Product, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if err := s.Repo.IncrementViewCount(id); err != nil {
		log.Printf("[product][detail] view count increment failed id=%d err=%v", id, err)
	}
	return p, nil
}

func (s *ProductService) ListByCategory(categoryID, limit, offset int) ([]*models.Product, error) {
	return s.Repo.ListByCategory(categoryID, limit, offset)
}

// Home собирает главную: активные баннеры/закреплённые уведомления и три
// витринных блока (новинки, скидки, популярные).
func (s *ProductService) Home() (*HomePayload, error) {
	now := time.Now()
	banners, err := s.Notices.ListActiveBanners(now, "")
	if err != nil {
		return nil, fmt.Errorf("load banners: %w", err)
	}
	notices, err := s.Notices.ListActiveNotices(now, 5)
	if err != nil {
		return nil, fmt.Errorf("load notices: %w", err)
	}
	newest, err := s.Repo.ListNew(homeSectionSize)
	if err != nil {
		return nil, fmt.Errorf("load new products: %w", err)
	}
	sale, err := s.Repo.ListOnSale(homeSectionSize)
	if err != nil {
		return nil, fmt.Errorf("load sale products: %w", err)
	}
	popular, err := s.Repo.ListPopular(homeSectionSize)
	if err != nil {
		return nil, fmt.Errorf("load popular products: %w", err)
	}
	return &HomePayload{
		Banners:         banners,
		Notices:         notices,
		NewProducts:     newest,
		SaleProducts:    sale,
		PopularProducts: popular,
	}, nil
}
