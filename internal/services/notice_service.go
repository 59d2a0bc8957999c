package services

import (
	"errors"
	"time"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var ErrInvalidPlacement = errors.New("unknown banner placement")

var bannerPlacements = map[string]bool{
	models.BannerHomeMain:    true,
	models.BannerHomeSidebar: true,
	models.BannerProductList: true,
	models.BannerCheckout:    true,
	models.BannerEtc:         true,
}

type NoticeService struct {
	Repo repositories.NoticeRepository
}

func NewNoticeService(repo repositories.NoticeRepository) *NoticeService {
	return &NoticeService{Repo: repo}
}

func (s *NoticeService) CreateNotice(n *models.Notice) error {
	return s.Repo.CreateNotice(n)
}

func (s *NoticeService) ListActiveNotices(limit int) ([]*models.Notice, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.ListActiveNotices(time.Now(), limit)
}

func (s *NoticeService) UpdateNotice(n *models.Notice) error {
	return s.Repo.UpdateNotice(n)
}

func (s *NoticeService) DeleteNotice(id int) error {
	return s.Repo.DeleteNotice(id)
}

func (s *NoticeService) CreateBanner(b *models.Banner) error {
	if !bannerPlacements[b.Placement] {
		return ErrInvalidPlacement
	}
	return s.Repo.CreateBanner(b)
}

func (s *NoticeService) ListActiveBanners(placement string) ([]*models.Banner, error) {
	if placement != "" && !bannerPlacements[placement] {
		return nil, ErrInvalidPlacement
	}
	return s.Repo.ListActiveBanners(time.Now(), placement)
}

func (s *NoticeService) UpdateBanner(b *models.Banner) error {
	if !bannerPlacements[b.Placement] {
		return ErrInvalidPlacement
	}
	return s.Repo.UpdateBanner(b)
}

func (s *NoticeService) DeleteBanner(id int) error {
	return s.Repo.DeleteBanner(id)
}
