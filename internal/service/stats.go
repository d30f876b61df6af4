package service

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

// CalculateStats is the pure aggregation over a roadmap: counts by status,
// completion rate and the per-category breakdown.
func CalculateStats(data model.Roadmap) model.Stats {
	stats := model.Stats{CategoryStats: map[string]model.CategoryStats{}}
	for _, cat := range data {
		cs := model.CategoryStats{Title: cat.Title}
		anyInProgress := false
		allCompleted := len(cat.Items) > 0
		for _, item := range cat.Items {
			stats.Total++
			cs.Total++
			switch item.Status {
			case model.StatusCompleted:
				stats.Completed++
				cs.Completed++
			case model.StatusInProgress:
				stats.InProgress++
				cs.InProgress++
				anyInProgress = true
				allCompleted = false
			case model.StatusSkipped:
				stats.Skipped++
				cs.Skipped++
				allCompleted = false
			default:
				stats.Pending++
				cs.Pending++
				allCompleted = false
			}
		}
		cs.CompletionRate = rate(cs.Completed, cs.Total)
		stats.CategoryStats[cat.ID] = cs
		stats.Summary.TotalCategories++
		if anyInProgress {
			stats.Summary.ActiveCategories++
		}
		if allCompleted {
			stats.Summary.CompletedCategories++
		}
	}
	stats.CompletionRate = rate(stats.Completed, stats.Total)
	return stats
}

func rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// StatsService computes stats from stored progress and caches the result
// in the stats namespace.
type StatsService struct {
	store store.Store
}

// NewStatsService creates a StatsService over the given store.
func NewStatsService(st store.Store) *StatsService {
	return &StatsService{store: st}
}

// Snapshot reads the user's stored progress, computes stats and writes
// them to the per-user stats document. A user with no progress is a
// NotFoundError.
func (s *StatsService) Snapshot(ctx context.Context, userID string) (*model.Stats, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Progress().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil, model.NewNotFoundError("userId", "no progress data for user")
		}
		return nil, err
	}
	stats := CalculateStats(doc.Data)
	out := &model.StatsDocument{
		UserID:       userID,
		Stats:        stats,
		CalculatedAt: model.NowISO(),
	}
	if err := s.store.Stats().Put(ctx, out); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("write stats cache failed")
		return nil, err
	}
	return &stats, nil
}

// Cached returns the previously computed stats document, or nil when the
// calculate path has never run for this user.
func (s *StatsService) Cached(ctx context.Context, userID string) (*model.StatsDocument, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Stats().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}
