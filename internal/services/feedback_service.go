package services

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/feedback-portal/internal/database"
	"github.com/AnshRaj112/feedback-portal/internal/models"
	"github.com/AnshRaj112/feedback-portal/pkg/apperrors"
)

// Create bumps the generation after commit; List caches under the generation it read before querying.
var feedbackGenerationKey = CacheKey("feedback", "gen")

// FeedbackService persists and lists feedback records.
type FeedbackService struct {
	provider *database.Provider
	cache    *CacheService
	timeout  time.Duration
}

// NewFeedbackService creates a feedback service. cache may be nil.
func NewFeedbackService(provider *database.Provider, cache *CacheService, timeout time.Duration) *FeedbackService {
	return &FeedbackService{
		provider: provider,
		cache:    cache,
		timeout:  timeout,
	}
}

// Create stores one record. The store assigns SubmittedAt.
func (s *FeedbackService) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}

	query, args, err := s.provider.Dialect().
		Insert(database.FeedbackTable).
		Cols("id", "student_name", "email", "comment").
		Vals(goqu.Vals{feedback.ID, feedback.StudentName, feedback.Email, feedback.Comment}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewStorageError("failed to build feedback insert query", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.provider.WithConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return apperrors.NewStorageError("failed to begin transaction", err)
		}
		// No-op once committed
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewStorageError("failed to insert feedback", err)
		}
		if err := tx.Commit(); err != nil {
			return apperrors.NewStorageError("failed to commit feedback", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("feedback_id", feedback.ID).Msg("feedback saved")

	if s.cache != nil {
		if _, err := s.cache.NextGeneration(ctx, feedbackGenerationKey); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate feedback list cache")
		}
	}
	return nil
}

// List returns every record, most recent first.
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.listCacheKey(ctx)
	}
	if cacheKey != "" {
		var cached []models.Feedback
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("feedback list cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	query, args, err := s.provider.Dialect().
		From(database.FeedbackTable).
		Select("id", "student_name", "email", "comment", "submitted_at").
		Order(goqu.C("submitted_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to build feedback select query", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	feedbacks := make([]models.Feedback, 0)
	err = s.provider.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return apperrors.NewStorageError("failed to query feedback", err)
		}
		defer rows.Close()

		for rows.Next() {
			var fb models.Feedback
			if err := rows.Scan(&fb.ID, &fb.StudentName, &fb.Email, &fb.Comment, &fb.SubmittedAt); err != nil {
				return apperrors.NewStorageError("failed to scan feedback row", err)
			}
			feedbacks = append(feedbacks, fb)
		}
		if err := rows.Err(); err != nil {
			return apperrors.NewStorageError("failed to read feedback rows", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, feedbacks); err != nil {
			log.Warn().Err(err).Msg("failed to cache feedback list")
		}
	}
	return feedbacks, nil
}

// listCacheKey returns the list key for the current generation, or "" when the
// generation is unreadable and the cache must be skipped.
func (s *FeedbackService) listCacheKey(ctx context.Context) string {
	gen, err := s.cache.Generation(ctx, feedbackGenerationKey)
	if err != nil {
		log.Warn().Err(err).Msg("feedback list cache generation read failed")
		return ""
	}
	return CacheKey("feedback", "list:"+strconv.FormatInt(gen, 10))
}

func (s *FeedbackService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
