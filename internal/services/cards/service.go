package cards

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/constants"
	"github.com/joseph-ayodele/cards-tracker/internal/common"
	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/repository"
	"github.com/joseph-ayodele/cards-tracker/internal/storage"
)

// urlResolver is implemented by stores that can map a public URL back to an object.
type urlResolver interface {
	NameFromURL(u string) (string, bool)
}

// Service handles card business logic: uploading images and storing rows.
type Service struct {
	repo   repository.CardRepository
	store  storage.BlobStore
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a new card service.
func NewService(repo repository.CardRepository, store storage.BlobStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Save uploads each present original image, then inserts one card row.
// Upload errors surface as UPLOAD_FAILURE, insert errors as
// PERSISTENCE_FAILURE; objects uploaded before a failure are removed.
func (s *Service) Save(ctx context.Context, sub entity.Submission) (*entity.BusinessCard, error) {
	logger := s.logger.With("session_id", common.SessionIDFromContext(ctx))

	var uploaded []string
	cleanup := func() {
		for _, name := range uploaded {
			if err := s.store.Delete(context.WithoutCancel(ctx), name); err != nil {
				logger.Warn("failed to remove orphaned object", "object", name, "error", err)
			}
		}
	}

	upload := func(side constants.Side, img *entity.Image) (*string, error) {
		if img == nil || img.IsZero() {
			return nil, nil
		}
		name := storage.ObjectName(img.Ext(), s.now())
		u, err := s.store.Upload(ctx, name, *img)
		if err != nil {
			logger.Error("image upload failed", "side", side, "object", name, "error", err)
			return nil, common.NewAppError(common.CodeUploadFailure, "uploading "+side.String()+" image failed", errors.Join(common.ErrUploadFailure, err))
		}
		uploaded = append(uploaded, name)
		return &u, nil
	}

	frontURL, err := upload(constants.Front, sub.Front)
	if err != nil {
		cleanup()
		return nil, err
	}
	backURL, err := upload(constants.Back, sub.Back)
	if err != nil {
		cleanup()
		return nil, err
	}

	card := entity.NewBusinessCard(sub.Record, frontURL, backURL, s.now())
	if err := s.repo.Insert(ctx, card); err != nil {
		cleanup()
		return nil, common.NewAppError(common.CodePersistenceFailure, "saving card failed", errors.Join(common.ErrPersistenceFailure, err))
	}

	logger.Info("card saved", "card_id", card.ID, "has_front", frontURL != nil, "has_back", backURL != nil)
	return card, nil
}

// List returns cards newest first, optionally filtered by a search string.
func (s *Service) List(ctx context.Context, query string, limit int) ([]*entity.BusinessCard, error) {
	cards, err := s.repo.List(ctx, repository.ListFilter{Query: query, Limit: limit})
	if err != nil {
		return nil, common.InternalError("list cards: " + err.Error())
	}
	return cards, nil
}

// Get returns one card by id.
func (s *Service) Get(ctx context.Context, id string) (*entity.BusinessCard, error) {
	cardID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	card, err := s.repo.Get(ctx, cardID)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return card, nil
}

// Delete removes the row and then its images, best effort.
func (s *Service) Delete(ctx context.Context, id string) error {
	card, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, card.ID); err != nil {
		return mapRepoError(err, id)
	}
	if r, ok := s.store.(urlResolver); ok {
		for _, u := range []*string{card.FrontImageURL, card.BackImageURL} {
			if u == nil {
				continue
			}
			if name, ok := r.NameFromURL(*u); ok {
				if err := s.store.Delete(ctx, name); err != nil {
					s.logger.Warn("failed to delete card image", "card_id", card.ID, "object", name, "error", err)
				}
			}
		}
	}
	s.logger.Info("card deleted", "card_id", card.ID)
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	validator := common.NewValidator()
	validator.Field("id", id, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(validator); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(id), nil
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFoundError("card not found: " + id)
	}
	return common.InternalError(err.Error())
}
