package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

// NotesService is upsert/delete-by-key over the per-user notes document.
type NotesService struct {
	store store.Store
}

// NewNotesService creates a NotesService over the given store.
func NewNotesService(st store.Store) *NotesService {
	return &NotesService{store: st}
}

// UpsertNoteRequest carries one note write. Content must be present: the
// empty string is a valid value (callers use it as a soft-delete signal at
// the UI layer), a nil pointer is rejected.
type UpsertNoteRequest struct {
	UserID     string
	ItemID     string
	CategoryID string
	ItemTitle  string
	Content    *string
}

// Upsert creates or replaces the note for an item. CreatedAt is preserved
// across updates; UpdatedAt is refreshed on every write.
func (s *NotesService) Upsert(ctx context.Context, req UpsertNoteRequest) (*model.NoteRecord, error) {
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}
	if req.ItemID == "" {
		return nil, model.NewValidationError("itemId", "itemId is required")
	}
	if req.Content == nil {
		return nil, model.NewValidationError("content", "content is required")
	}
	notes, err := s.store.Notes().Get(ctx, req.UserID)
	if err != nil {
		if !model.IsNotFoundError(err) {
			log.Error().Err(err).Str("userID", req.UserID).Msg("read notes failed")
			return nil, err
		}
		notes = model.NoteSet{}
	}
	now := model.NowISO()
	createdAt := now
	if prev, ok := notes[req.ItemID]; ok {
		createdAt = prev.CreatedAt
	}
	rec := model.NoteRecord{
		ItemID:     req.ItemID,
		CategoryID: req.CategoryID,
		ItemTitle:  req.ItemTitle,
		Content:    *req.Content,
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}
	notes[req.ItemID] = rec
	if err := s.store.Notes().Put(ctx, req.UserID, notes); err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Str("itemID", req.ItemID).Msg("write notes failed")
		return nil, err
	}
	return &rec, nil
}

// Update rewrites the content of an existing note. Missing notes are a
// NotFoundError, unlike Upsert which creates them.
func (s *NotesService) Update(ctx context.Context, userID, itemID, content string) (*model.NoteRecord, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	notes, err := s.store.Notes().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil, model.NewNotFoundError("itemId", "note not found")
		}
		return nil, err
	}
	prev, ok := notes[itemID]
	if !ok {
		return nil, model.NewNotFoundError("itemId", "note not found")
	}
	prev.Content = content
	prev.UpdatedAt = model.NowISO()
	notes[itemID] = prev
	if err := s.store.Notes().Put(ctx, userID, notes); err != nil {
		return nil, err
	}
	return &prev, nil
}

// Get returns the note for an item, or nil when none exists.
func (s *NotesService) Get(ctx context.Context, userID, itemID string) (*model.NoteRecord, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	notes, err := s.store.Notes().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	rec, ok := notes[itemID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// GetAll returns the whole notes document for a user; empty map when none.
func (s *NotesService) GetAll(ctx context.Context, userID string) (model.NoteSet, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	notes, err := s.store.Notes().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return model.NoteSet{}, nil
		}
		return nil, err
	}
	return notes, nil
}

// Delete removes the note for an item. Deleting an absent note is not an
// error; the operation is idempotent.
func (s *NotesService) Delete(ctx context.Context, userID, itemID string) error {
	if userID == "" {
		userID = DefaultUserID
	}
	if itemID == "" {
		return model.NewValidationError("itemId", "itemId is required")
	}
	notes, err := s.store.Notes().Get(ctx, userID)
	if err != nil {
		if model.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if _, ok := notes[itemID]; !ok {
		return nil
	}
	delete(notes, itemID)
	if err := s.store.Notes().Put(ctx, userID, notes); err != nil {
		log.Error().Err(err).Str("userID", userID).Str("itemID", itemID).Msg("delete note failed")
		return err
	}
	return nil
}
