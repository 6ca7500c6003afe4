package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"everafter/internal/lib/logger/sl"
	"everafter/internal/repository"
	weddingservice "everafter/internal/services/wedding_service"
	"everafter/internal/transport/http/dto"
)

// GalleryLimit caps the public landing gallery.
const GalleryLimit = 6

type GalleryService struct {
	log  *slog.Logger
	repo repository.WeddingRepository
}

func NewGalleryService(log *slog.Logger, repo repository.WeddingRepository) *GalleryService {
	return &GalleryService{log: log, repo: repo}
}

// LatestWeddings returns the newest weddings across all users for the
// public landing page, already mapped for presentation.
func (s *GalleryService) LatestWeddings(ctx context.Context) ([]dto.WeddingResponse, error) {
	const op = "gallery_service.LatestWeddings"

	weddings, err := s.repo.LatestWeddings(ctx, GalleryLimit)
	if err != nil {
		s.log.Error("failed to load gallery", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	out := make([]dto.WeddingResponse, 0, len(weddings))
	for i, w := range weddings {
		out = append(out, weddingservice.MapWedding(w, i, now))
	}

	return out, nil
}
