package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

// DefaultHistoryLimit bounds a history listing when the caller gives none.
const DefaultHistoryLimit = 10

// HistoryService owns the append-only snapshot log. Snapshots never
// participate in sync reconciliation; they are written independently.
type HistoryService struct {
	store store.Store
}

// NewHistoryService creates a HistoryService over the given store.
func NewHistoryService(st store.Store) *HistoryService {
	return &HistoryService{store: st}
}

// Append writes a new immutable snapshot of data and returns its file name.
func (s *HistoryService) Append(ctx context.Context, userID string, data model.Roadmap) (string, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if data == nil {
		return "", model.NewValidationError("data", "data is required")
	}
	snap := &model.HistorySnapshot{
		UserID:    userID,
		Data:      data,
		Timestamp: model.NowISO(),
	}
	name, err := s.store.History().Append(ctx, snap)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("append snapshot failed")
		return "", err
	}
	log.Info().Str("userID", userID).Str("fileName", name).Msg("snapshot written")
	return name, nil
}

// List returns the limit most recent snapshots, newest first. Users with
// no history get an empty slice.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]*model.HistorySnapshot, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	snaps, err := s.store.History().List(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("list history failed")
		return nil, err
	}
	return snaps, nil
}
