package service

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store/filestore"
)

func newProgressService(t *testing.T) *ProgressService {
	t.Helper()
	return NewProgressService(filestore.New(afero.NewMemMapFs(), "/data"))
}

func roadmapWith(status model.Status) model.Roadmap {
	return model.Roadmap{
		{
			ID:     "backend",
			Title:  "Backend",
			Status: model.StatusInProgress,
			Items: []model.KnowledgeItem{
				{ID: "go", Title: "Go", Status: status},
			},
		},
	}
}

const (
	tsOld = "2024-01-15T10:00:00.000Z"
	tsMid = "2024-01-15T11:00:00.000Z"
	tsNew = "2024-01-15T12:00:00.000Z"
)

func TestSaveAndLoad(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()

	res, err := svc.Save(ctx, "alice", roadmapWith(model.StatusPending), tsMid)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SavedAt)

	doc, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, tsMid, doc.Timestamp)
	assert.Equal(t, res.SavedAt, doc.SavedAt)
}

func TestSaveRejectsNilData(t *testing.T) {
	svc := newProgressService(t)
	_, err := svc.Save(context.Background(), "alice", nil, tsMid)
	assert.True(t, model.IsValidationError(err))
}

func TestLoadMissingIsNilNotError(t *testing.T) {
	svc := newProgressService(t)
	doc, err := svc.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSaveOverwritesUnconditionally(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "alice", roadmapWith(model.StatusCompleted), tsNew)
	require.NoError(t, err)
	// An older save still wins the file: save has no conflict guard.
	_, err = svc.Save(ctx, "alice", roadmapWith(model.StatusPending), tsOld)
	require.NoError(t, err)

	doc, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, tsOld, doc.Timestamp)
	assert.Equal(t, model.StatusPending, doc.Data[0].Items[0].Status)
}

func TestPushConflictGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("first push accepted", func(t *testing.T) {
		svc := newProgressService(t)
		res, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)
		assert.NotEmpty(t, res.SyncedAt)
	})

	t.Run("stale push rejected with server document", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusCompleted), tsNew, false)
		require.NoError(t, err)

		_, err = svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsOld, false)
		require.Error(t, err)
		ce, ok := model.AsConflictError(err)
		require.True(t, ok)
		require.NotNil(t, ce.ServerDoc)
		assert.Equal(t, tsNew, ce.ServerDoc.Timestamp)
		assert.Equal(t, model.StatusCompleted, ce.ServerDoc.Data[0].Items[0].Status)

		// Rejected push left the stored document untouched.
		doc, err := svc.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, tsNew, doc.Timestamp)
	})

	t.Run("equal timestamps are not a conflict", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)
		_, err = svc.Push(ctx, "alice", roadmapWith(model.StatusCompleted), tsMid, false)
		require.NoError(t, err)

		doc, err := svc.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, doc.Data[0].Items[0].Status)
	})

	t.Run("forceUpdate bypasses the guard", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusCompleted), tsNew, false)
		require.NoError(t, err)
		_, err = svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsOld, true)
		require.NoError(t, err)

		doc, err := svc.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, tsOld, doc.Timestamp)
	})

	t.Run("unparseable stored timestamp never conflicts", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), "garbage", false)
		require.NoError(t, err)
		_, err = svc.Push(ctx, "alice", roadmapWith(model.StatusCompleted), tsOld, false)
		require.NoError(t, err)
	})
}

func TestPull(t *testing.T) {
	ctx := context.Background()

	t.Run("no document means no update", func(t *testing.T) {
		svc := newProgressService(t)
		res, err := svc.Pull(ctx, "nobody", "")
		require.NoError(t, err)
		assert.False(t, res.HasUpdate)
		assert.Nil(t, res.Data)
	})

	t.Run("no lastSync always has update", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Pull(ctx, "alice", "")
		require.NoError(t, err)
		assert.True(t, res.HasUpdate)
		assert.NotNil(t, res.Data)
		assert.Equal(t, tsMid, res.Timestamp)
	})

	t.Run("lastSync at or after syncedAt means no update", func(t *testing.T) {
		svc := newProgressService(t)
		push, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Pull(ctx, "alice", push.SyncedAt)
		require.NoError(t, err)
		assert.False(t, res.HasUpdate)
		assert.Nil(t, res.Data, "payload omitted when client is current")
	})

	t.Run("older lastSync has update", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Pull(ctx, "alice", tsOld)
		require.NoError(t, err)
		assert.True(t, res.HasUpdate)
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no server data", func(t *testing.T) {
		svc := newProgressService(t)
		res, err := svc.Status(ctx, "nobody", tsMid)
		require.NoError(t, err)
		assert.Equal(t, SyncStateNoServerData, res.Status)
		assert.True(t, res.NeedPush)
		assert.False(t, res.NeedPull)
	})

	t.Run("fresh device pulls", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Status(ctx, "alice", "")
		require.NoError(t, err)
		assert.Equal(t, SyncStateNeedPull, res.Status)
		assert.True(t, res.NeedPull)
	})

	t.Run("local ahead pushes", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Status(ctx, "alice", tsNew)
		require.NoError(t, err)
		assert.Equal(t, SyncStateNeedPush, res.Status)
		assert.True(t, res.NeedPush)
		assert.False(t, res.NeedPull)
	})

	t.Run("server ahead pulls", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Status(ctx, "alice", tsOld)
		require.NoError(t, err)
		assert.Equal(t, SyncStateNeedPull, res.Status)
	})

	t.Run("exact equality is the only synced state", func(t *testing.T) {
		svc := newProgressService(t)
		_, err := svc.Push(ctx, "alice", roadmapWith(model.StatusPending), tsMid, false)
		require.NoError(t, err)

		res, err := svc.Status(ctx, "alice", tsMid)
		require.NoError(t, err)
		assert.Equal(t, SyncStateSynced, res.Status)
		assert.False(t, res.NeedPush)
		assert.False(t, res.NeedPull)
		assert.Equal(t, tsMid, res.ServerTimestamp)
	})
}
