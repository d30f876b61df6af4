package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

// DefaultUserID is used wherever a caller omits the user id.
const DefaultUserID = "default"

// ProgressService owns the live per-user roadmap document: the
// unconditional save/load path and the conflict-guarded sync path.
type ProgressService struct {
	store store.Store
}

// NewProgressService creates a ProgressService over the given store.
func NewProgressService(st store.Store) *ProgressService {
	return &ProgressService{store: st}
}

// SaveResult reports the server-assigned write time of a save.
type SaveResult struct {
	SavedAt string `json:"savedAt"`
}

// Save overwrites the user's progress document unconditionally. There is no
// merge and no conflict detection on this path; two concurrent saves race
// and the last writer physically wins. Timestamp defaults to server time
// when the caller omits it.
func (s *ProgressService) Save(ctx context.Context, userID string, data model.Roadmap, timestamp string) (*SaveResult, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if data == nil {
		return nil, model.NewValidationError("data", "data is required")
	}
	now := model.NowISO()
	if timestamp == "" {
		timestamp = now
	}
	doc := &model.ProgressDocument{
		UserID:    userID,
		Data:      data,
		Timestamp: timestamp,
		SavedAt:   now,
	}
	if err := s.store.Progress().Put(ctx, doc); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("save progress failed")
		return nil, err
	}
	log.Info().Str("userID", userID).Int("categories", len(data)).Msg("progress saved")
	return &SaveResult{SavedAt: now}, nil
}

// Load returns the user's progress document, or nil (not an error) when
// none has been saved yet.
func (s *ProgressService) Load(ctx context.Context, userID string) (*model.ProgressDocument, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Progress().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil, nil
		}
		log.Error().Err(err).Str("userID", userID).Msg("load progress failed")
		return nil, err
	}
	return doc, nil
}

// PushResult reports the server-assigned sync time of an accepted push.
type PushResult struct {
	SyncedAt string `json:"syncedAt"`
}

// Push is the guarded write used by sync. Unless forceUpdate is set it
// reads the existing document first and rejects the push with a
// ConflictError, carrying the winning server document, when the stored
// timestamp is strictly newer than the incoming one. Ties are not
// conflicts: the incoming write goes through and last-write-wins.
//
// The read-then-write sequence is not transactionally guarded; two pushes
// for the same user from different sessions can race between the check and
// the write. Accepted for single-user-per-account usage.
func (s *ProgressService) Push(ctx context.Context, userID string, data model.Roadmap, timestamp string, forceUpdate bool) (*PushResult, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if data == nil {
		return nil, model.NewValidationError("data", "data is required")
	}
	if !forceUpdate {
		existing, err := s.store.Progress().Get(ctx, userID)
		if err != nil && !model.IsNotFoundError(err) {
			log.Error().Err(err).Str("userID", userID).Msg("push conflict check failed")
			return nil, err
		}
		if existing != nil {
			existingTime, okE := model.ParseInstant(existing.Timestamp)
			newTime, okN := model.ParseInstant(timestamp)
			if okE && okN && existingTime.After(newTime) {
				log.Warn().Str("userID", userID).
					Str("serverTimestamp", existing.Timestamp).
					Str("pushTimestamp", timestamp).
					Msg("push rejected, server document is newer")
				return nil, model.NewConflictError("server has newer data", existing)
			}
		}
	}
	now := model.NowISO()
	if timestamp == "" {
		timestamp = now
	}
	doc := &model.ProgressDocument{
		UserID:    userID,
		Data:      data,
		Timestamp: timestamp,
		SyncedAt:  now,
	}
	if err := s.store.Progress().Put(ctx, doc); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("push write failed")
		return nil, err
	}
	log.Info().Str("userID", userID).Str("syncedAt", now).Msg("push accepted")
	return &PushResult{SyncedAt: now}, nil
}

// PullResult is the server's answer to a pull: the document when the
// client is behind, or hasUpdate=false when it already has this version.
type PullResult struct {
	HasUpdate bool
	Data      model.Roadmap
	Timestamp string
	SyncedAt  string
}

// Pull fetches the stored document. hasUpdate is true unless lastSync is
// supplied and the document's syncedAt is not strictly newer than it. When
// the user has no document, hasUpdate is false with nil data.
func (s *ProgressService) Pull(ctx context.Context, userID, lastSync string) (*PullResult, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Progress().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return &PullResult{HasUpdate: false}, nil
		}
		log.Error().Err(err).Str("userID", userID).Msg("pull read failed")
		return nil, err
	}
	hasUpdate := true
	if lastSyncTime, ok := model.ParseInstant(lastSync); ok {
		if syncedAt, ok2 := model.ParseInstant(doc.SyncedAt); ok2 {
			hasUpdate = syncedAt.After(lastSyncTime)
		}
	}
	res := &PullResult{
		HasUpdate: hasUpdate,
		Timestamp: doc.Timestamp,
		SyncedAt:  doc.SyncedAt,
	}
	if hasUpdate {
		res.Data = doc.Data
	}
	return res, nil
}

// Sync status values returned by Status.
const (
	SyncStateNoServerData = "no_server_data"
	SyncStateNeedPull     = "need_pull"
	SyncStateNeedPush     = "need_push"
	SyncStateSynced       = "synced"
)

// StatusResult tells a client which side of the sync is ahead.
type StatusResult struct {
	Status          string `json:"status"`
	NeedPush        bool   `json:"needPush"`
	NeedPull        bool   `json:"needPull"`
	ServerTimestamp string `json:"serverTimestamp,omitempty"`
	LocalTimestamp  string `json:"localTimestamp,omitempty"`
	LastSyncAt      string `json:"lastSyncAt,omitempty"`
}

// Status compares the caller's local timestamp against the stored
// document's. Exactly-equal timestamps are the only synced state; any
// other relation resolves to exactly one of push/pull. A client with no
// local timestamp is told to pull: the server is authoritative on a fresh
// device.
func (s *ProgressService) Status(ctx context.Context, userID, localTimestamp string) (*StatusResult, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	doc, err := s.store.Progress().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return &StatusResult{
				Status:         SyncStateNoServerData,
				NeedPush:       true,
				LocalTimestamp: localTimestamp,
			}, nil
		}
		log.Error().Err(err).Str("userID", userID).Msg("status read failed")
		return nil, err
	}
	res := &StatusResult{
		ServerTimestamp: doc.Timestamp,
		LocalTimestamp:  localTimestamp,
		LastSyncAt:      doc.SyncedAt,
	}
	localTime, okLocal := model.ParseInstant(localTimestamp)
	if !okLocal {
		res.Status = SyncStateNeedPull
		res.NeedPull = true
		return res, nil
	}
	serverTime, _ := model.ParseInstant(doc.Timestamp)
	switch {
	case localTime.After(serverTime):
		res.Status = SyncStateNeedPush
		res.NeedPush = true
	case serverTime.After(localTime):
		res.Status = SyncStateNeedPull
		res.NeedPull = true
	default:
		res.Status = SyncStateSynced
	}
	return res, nil
}
