package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urlkit/urlkit/internal/models"
	"github.com/urlkit/urlkit/internal/repository"
	"github.com/urlkit/urlkit/internal/validate"
	"go.uber.org/zap"
)

const secondsPerDay = 24 * 60 * 60

// IDGenerator produces fresh candidate identifiers. Each retry of the
// create loop must call it again; spent identifiers are never reused.
type IDGenerator interface {
	Generate() (string, error)
}

// Config carries the tunables of the create operation so collision
// probability tradeoffs stay testable.
type Config struct {
	DomainPrefix string
	MaxAttempts  int
}

// RedirectDecision is the transport-neutral outcome of a successful
// redirect lookup. Front-door adapters shape it into their own
// response format.
type RedirectDecision struct {
	Location string
}

// LinkService implements the create and redirect operations.
type LinkService interface {
	CreateShortURL(ctx context.Context, input *models.CreateLinkInput) (*models.CreateLinkResponse, error)
	Redirect(ctx context.Context, shortID string) (*RedirectDecision, error)
}

type linkService struct {
	linkRepo  repository.LinkRepository
	cacheRepo repository.CacheRepository
	gen       IDGenerator
	logger    *zap.Logger
	cfg       Config
	nowFunc   func() time.Time
}

func NewLinkService(
	linkRepo repository.LinkRepository,
	cacheRepo repository.CacheRepository,
	gen IDGenerator,
	logger *zap.Logger,
	cfg Config,
) LinkService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &linkService{
		linkRepo:  linkRepo,
		cacheRepo: cacheRepo,
		gen:       gen,
		logger:    logger,
		cfg:       cfg,
		nowFunc:   time.Now,
	}
}

// CreateShortURL validates the URL, normalizes the expiry input, and
// allocates an identifier with a bounded conditional-insert retry loop.
func (s *linkService) CreateShortURL(ctx context.Context, input *models.CreateLinkInput) (*models.CreateLinkResponse, error) {
	if res := validate.ValidateURL(input.OriginalURL); !res.Valid {
		if res.Security {
			s.logger.Warn("security violation in URL validation",
				zap.String("request_id", input.RequestID),
				zap.String("url", input.OriginalURL),
				zap.String("error", res.Message),
				zap.Bool("security_violation", true),
			)
		} else {
			s.logger.Info("URL format error",
				zap.String("request_id", input.RequestID),
				zap.String("url", input.OriginalURL),
				zap.String("error", res.Message),
			)
		}
		return nil, &ValidationError{Security: res.Security, Message: res.Message}
	}

	// Malformed expiry never blocks creation; it falls back to the
	// default period.
	days := validate.NormalizeExpiryDays(input.ExpiresInDays, s.logger)

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		shortID, err := s.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate short id: %w", err)
		}

		now := s.nowFunc().Unix()
		rec := &models.ShortLinkRecord{
			ShortID:      shortID,
			CreatedAt:    now,
			OriginalURL:  input.OriginalURL,
			ExpiresAt:    now + int64(days)*secondsPerDay,
			Status:       models.StatusActive,
			Clicks:       0,
			LastAccessed: now,
			RequestID:    input.RequestID,
			OwnerID:      input.OwnerID,
			ExpiryDays:   days,
		}

		err = s.linkRepo.InsertIfAbsent(ctx, rec)
		if err == nil {
			s.cacheRecord(ctx, rec)
			s.logger.Info("created short URL",
				zap.String("request_id", input.RequestID),
				zap.String("short_id", shortID),
				zap.Int("expiry_days", days),
			)
			return &models.CreateLinkResponse{
				ShortURL:       s.cfg.DomainPrefix + shortID,
				OriginalURL:    rec.OriginalURL,
				ExpirationDate: models.FormatTimestamp(rec.ExpiresAt),
				ExpiresInDays:  days,
				Status:         rec.Status,
				CreatedAt:      models.FormatTimestamp(rec.CreatedAt),
				RequestID:      input.RequestID,
			}, nil
		}

		if errors.Is(err, repository.ErrIDExists) {
			if attempt == s.cfg.MaxAttempts {
				s.logger.Error("max retries reached generating unique short id",
					zap.String("request_id", input.RequestID),
					zap.Int("attempts", s.cfg.MaxAttempts),
				)
				return nil, ErrAllocExhausted
			}
			s.logger.Warn("short id collision, retrying",
				zap.String("request_id", input.RequestID),
				zap.Int("attempt", attempt),
			)
			continue
		}

		// Any non-conflict store failure ends the operation at once.
		return nil, fmt.Errorf("failed to insert link: %w", err)
	}

	return nil, ErrAllocExhausted
}

// Redirect resolves an identifier to its stored URL: lookup, read-time
// expiry check, then a single best-effort click increment. A failed
// increment never fails the redirect.
func (s *linkService) Redirect(ctx context.Context, shortID string) (*RedirectDecision, error) {
	if shortID == "" {
		return nil, ErrEmptyID
	}

	rec, cached := s.lookupCached(ctx, shortID)
	if rec == nil {
		var err error
		rec, err = s.linkRepo.GetLatestByShortID(ctx, shortID)
		if err != nil {
			if errors.Is(err, repository.ErrLinkNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to look up link: %w", err)
		}
	}

	now := s.nowFunc()
	if rec.Expired(now) {
		s.logger.Info("short URL has expired",
			zap.String("short_id", shortID),
			zap.String("expired_at", models.FormatTimestamp(rec.ExpiresAt)),
		)
		return nil, ErrExpired
	}

	if !cached {
		s.cacheRecord(ctx, rec)
	}

	if err := s.linkRepo.IncrementClicks(ctx, rec.ShortID, rec.CreatedAt, now.Unix()); err != nil {
		// Availability over counter accuracy: log and redirect anyway.
		s.logger.Error("failed to update click count",
			zap.String("short_id", shortID),
			zap.Error(err),
		)
	}

	return &RedirectDecision{Location: rec.OriginalURL}, nil
}

func (s *linkService) lookupCached(ctx context.Context, shortID string) (*models.ShortLinkRecord, bool) {
	if s.cacheRepo == nil {
		return nil, false
	}
	rec, err := s.cacheRepo.Get(ctx, shortID)
	if err != nil {
		return nil, false
	}
	return rec, true
}

// cacheRecord stores the record until it expires. Failures only cost
// the next reader a database round trip.
func (s *linkService) cacheRecord(ctx context.Context, rec *models.ShortLinkRecord) {
	if s.cacheRepo == nil {
		return
	}
	ttl := time.Until(time.Unix(rec.ExpiresAt, 0))
	if ttl <= 0 {
		return
	}
	if err := s.cacheRepo.Set(ctx, rec.ShortID, rec, ttl); err != nil {
		s.logger.Warn("failed to cache link record",
			zap.String("short_id", rec.ShortID),
			zap.Error(err),
		)
	}
}
