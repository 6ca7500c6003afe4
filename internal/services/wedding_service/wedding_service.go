package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"everafter/internal/domain/models"
	"everafter/internal/lib/countdown"
	"everafter/internal/lib/logger/sl"
	"everafter/internal/repository"
	"everafter/internal/transport/http/dto"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrMissingRequiredField = errors.New("couple names, wedding date and venue are required")
	ErrInvalidWeddingDate   = errors.New("wedding date must be a calendar date (YYYY-MM-DD)")
	ErrDeleteNotConfirmed   = errors.New("delete requires explicit confirmation")
)

// defaultImages is the fixed six-entry gallery substituted for weddings
// without an image, selected by list position modulo six.
var defaultImages = [...]string{
	"https://images.pexels.com/photos/265722/pexels-photo-265722.jpeg?auto=compress&cs=tinysrgb&w=800",
	"https://images.pexels.com/photos/1444442/pexels-photo-1444442.jpeg?auto=compress&cs=tinysrgb&w=800",
	"https://images.pexels.com/photos/2253870/pexels-photo-2253870.jpeg?auto=compress&cs=tinysrgb&w=800",
	"https://images.pexels.com/photos/169198/pexels-photo-169198.jpeg?auto=compress&cs=tinysrgb&w=800",
	"https://images.pexels.com/photos/1616113/pexels-photo-1616113.jpeg?auto=compress&cs=tinysrgb&w=800",
	"https://images.pexels.com/photos/1024993/pexels-photo-1024993.jpeg?auto=compress&cs=tinysrgb&w=800",
}

// nowFunc is swapped in tests to pin countdown computations.
var nowFunc = time.Now

func DefaultImageURL(index int) string {
	return defaultImages[index%len(defaultImages)]
}

type WeddingService struct {
	log   *slog.Logger
	repo  repository.WeddingRepository
	cache *gocache.Cache
}

func NewWeddingService(log *slog.Logger, repo repository.WeddingRepository) *WeddingService {
	return &WeddingService{
		log:   log,
		repo:  repo,
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// ListWeddings returns the owner's weddings ordered by wedding date
// ascending. The list is cached per owner and invalidated on every
// mutation, so a read after create/edit/delete always refetches.
func (s *WeddingService) ListWeddings(ctx context.Context, ownerID uuid.UUID) ([]models.Wedding, error) {
	const op = "wedding_service.ListWeddings"

	key := listCacheKey(ownerID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Wedding), nil
	}

	weddings, err := s.repo.ListWeddings(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list weddings", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(key, weddings, gocache.DefaultExpiration)

	return weddings, nil
}

func (s *WeddingService) GetWedding(ctx context.Context, weddingID, ownerID uuid.UUID) (*models.Wedding, error) {
	const op = "wedding_service.GetWedding"

	wedding, err := s.repo.GetWeddingByID(ctx, weddingID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wedding, nil
}

// CreateWedding validates and normalizes the form buffer, then inserts a
// row owned by ownerID. The store is never called with missing required
// fields.
func (s *WeddingService) CreateWedding(ctx context.Context, ownerID uuid.UUID, req dto.WeddingFormRequest) (*models.Wedding, error) {
	const op = "wedding_service.CreateWedding"
	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
	)

	wedding, err := normalizeForm(req)
	if err != nil {
		log.Warn("form rejected", sl.Err(err))
		return nil, err
	}
	wedding.UserID = ownerID

	inserted, err := s.repo.InsertWedding(ctx, wedding)
	if err != nil {
		log.Error("failed to insert wedding", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(listCacheKey(ownerID))

	log.Info("wedding created", slog.String("wedding_id", inserted.ID.String()))
	return inserted, nil
}

// UpdateWedding applies the normalized form to an existing owned row. The
// owner id is never part of the update.
func (s *WeddingService) UpdateWedding(ctx context.Context, weddingID, ownerID uuid.UUID, req dto.WeddingFormRequest) (*models.Wedding, error) {
	const op = "wedding_service.UpdateWedding"
	log := s.log.With(
		slog.String("op", op),
		slog.String("wedding_id", weddingID.String()),
	)

	wedding, err := normalizeForm(req)
	if err != nil {
		log.Warn("form rejected", sl.Err(err))
		return nil, err
	}

	updates := map[string]interface{}{
		"couple_names": wedding.CoupleNames,
		"wedding_date": wedding.WeddingDate,
		"venue":        wedding.Venue,
		"guest_count":  wedding.GuestCount,
		"budget":       wedding.Budget,
		"theme":        wedding.Theme,
		"notes":        wedding.Notes,
		"image_url":    wedding.ImageURL,
		"status":       wedding.Status,
	}

	if err := s.repo.UpdateWeddingFields(ctx, weddingID, ownerID, updates); err != nil {
		log.Error("failed to update wedding", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(listCacheKey(ownerID))

	log.Info("wedding updated")
	return s.repo.GetWeddingByID(ctx, weddingID, ownerID)
}

// DeleteWedding removes one owned wedding after an explicit confirmation.
// A failed delete leaves the cached list intact so the record stays
// visible.
func (s *WeddingService) DeleteWedding(ctx context.Context, weddingID, ownerID uuid.UUID, confirmed bool) error {
	const op = "wedding_service.DeleteWedding"
	log := s.log.With(
		slog.String("op", op),
		slog.String("wedding_id", weddingID.String()),
	)

	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	if err := s.repo.DeleteWedding(ctx, weddingID, ownerID); err != nil {
		log.Error("failed to delete wedding", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(listCacheKey(ownerID))

	log.Info("wedding deleted")
	return nil
}

// MapWedding builds the presentation row: default image substituted by list
// position when none is stored, countdown computed from the stored date and
// the current instant, never persisted.
func MapWedding(w models.Wedding, index int, now time.Time) dto.WeddingResponse {
	imageURL := DefaultImageURL(index)
	if w.ImageURL != nil && *w.ImageURL != "" {
		imageURL = *w.ImageURL
	}

	breakdown, passed := countdown.Until(w.WeddingDate, now)

	return dto.WeddingResponse{
		ID:          w.ID,
		CoupleNames: w.CoupleNames,
		WeddingDate: w.WeddingDate,
		Venue:       w.Venue,
		GuestCount:  w.GuestCount,
		Budget:      w.Budget,
		Theme:       w.Theme,
		Notes:       w.Notes,
		ImageURL:    imageURL,
		Status:      w.Status,
		Countdown:   breakdown,
		Passed:      passed,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// normalizeForm turns the raw form buffer into a storable row: required
// strings trimmed and checked, guest count parsed with a zero default,
// blank budget stored as null rather than zero, and blank optional strings
// stored as null rather than empty.
func normalizeForm(req dto.WeddingFormRequest) (models.Wedding, error) {
	coupleNames := strings.TrimSpace(req.CoupleNames)
	venue := strings.TrimSpace(req.Venue)
	dateStr := strings.TrimSpace(req.WeddingDate)

	if coupleNames == "" || venue == "" || dateStr == "" {
		return models.Wedding{}, ErrMissingRequiredField
	}

	weddingDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return models.Wedding{}, ErrInvalidWeddingDate
	}

	guestCount, err := strconv.Atoi(strings.TrimSpace(req.GuestCount))
	if err != nil || guestCount < 0 {
		guestCount = 0
	}

	var budget *float64
	if b := strings.TrimSpace(req.Budget); b != "" {
		if parsed, err := strconv.ParseFloat(b, 64); err == nil {
			budget = &parsed
		}
	}

	status := req.Status
	if status == "" {
		status = models.StatusPlanning
	}

	return models.Wedding{
		CoupleNames: coupleNames,
		WeddingDate: weddingDate,
		Venue:       venue,
		GuestCount:  guestCount,
		Budget:      budget,
		Theme:       optionalString(req.Theme),
		Notes:       optionalString(req.Notes),
		ImageURL:    optionalString(req.ImageURL),
		Status:      status,
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func listCacheKey(ownerID uuid.UUID) string {
	return "weddings:" + ownerID.String()
}
