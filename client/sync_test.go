package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/internal/api"
	"roadmap-backend/internal/config"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store/filestore"
)

// newTestServer runs the real router over an in-memory store, so these
// tests exercise the full client-server sync protocol.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Environment: config.EnvDevelopment,
		HTTPPort:    8080,
		DataDir:     "/data",
		ChatBaseURL: "http://upstream.invalid/v1",
		ChatModel:   "test-model",
	}
	st := filestore.New(afero.NewMemMapFs(), cfg.DataDir)
	srv := httptest.NewServer(api.NewRouter(cfg, st, st))
	t.Cleanup(srv.Close)
	return srv
}

func seedRoadmap(status model.Status) model.Roadmap {
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

func newTestSession(t *testing.T, srv *httptest.Server, fs afero.Fs) *SyncSession {
	t.Helper()
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	return NewSyncSession(c, SyncConfig{
		CachePath: "/cache/state.json",
		Fs:        fs,
		Seed:      seedRoadmap(model.StatusPending),
	})
}

func TestClientPushPullRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	ctx := context.Background()

	push, err := c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), "2024-01-15T10:00:00.000Z", false)
	require.NoError(t, err)
	assert.True(t, push.Success)
	assert.NotEmpty(t, push.SyncedAt)

	pull, err := c.PullProgress(ctx, "")
	require.NoError(t, err)
	assert.True(t, pull.HasUpdate)
	require.Len(t, pull.Data, 1)
	assert.Equal(t, model.StatusCompleted, pull.Data[0].Items[0].Status)
}

func TestClientPushConflict(t *testing.T) {
	srv := newTestServer(t)
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), "2024-01-15T12:00:00.000Z", false)
	require.NoError(t, err)

	res, err := c.PushProgress(ctx, seedRoadmap(model.StatusPending), "2024-01-15T10:00:00.000Z", false)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	require.NotNil(t, res)
	require.NotNil(t, res.ServerData)
	assert.Equal(t, "2024-01-15T12:00:00.000Z", res.ServerData.Timestamp)
}

func TestSyncSessionSeedsFromConfig(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, srv, afero.NewMemMapFs())

	assert.Equal(t, SyncIdle, sess.Status())
	require.Len(t, sess.Data(), 1)
	assert.Equal(t, model.StatusPending, sess.Data()[0].Items[0].Status)
}

func TestSyncSessionSetDataAndPush(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, srv, afero.NewMemMapFs())
	ctx := context.Background()

	sess.SetData(seedRoadmap(model.StatusCompleted))
	res, err := sess.Push(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, SyncSuccess, sess.Status())
	assert.NotEmpty(t, sess.LastSyncTime())
}

func TestSyncSessionPullOverwritesLocalData(t *testing.T) {
	srv := newTestServer(t)
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), model.NowISO(), false)
	require.NoError(t, err)

	sess := newTestSession(t, srv, afero.NewMemMapFs())
	res, err := sess.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, res.HasUpdate)
	assert.Equal(t, model.StatusCompleted, sess.Data()[0].Items[0].Status)
	assert.Equal(t, SyncSuccess, sess.Status())
}

func TestSyncSessionPullNoopKeepsLocalData(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, srv, afero.NewMemMapFs())
	ctx := context.Background()

	sess.SetData(seedRoadmap(model.StatusInProgress))
	_, err := sess.Push(ctx)
	require.NoError(t, err)

	// The server has nothing newer than the push we just made.
	res, err := sess.Pull(ctx)
	require.NoError(t, err)
	assert.False(t, res.HasUpdate)
	assert.Equal(t, model.StatusInProgress, sess.Data()[0].Items[0].Status)
}

func TestSyncSessionConflictLeavesDataUntouched(t *testing.T) {
	srv := newTestServer(t)
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	ctx := context.Background()

	future := time.Now().UTC().Add(time.Hour).Format("2006-01-02T15:04:05.000Z")
	_, err = c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), future, false)
	require.NoError(t, err)

	sess := newTestSession(t, srv, afero.NewMemMapFs())
	sess.SetData(seedRoadmap(model.StatusSkipped))

	_, err = sess.Push(ctx)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Equal(t, SyncError, sess.Status())
	// Local edit survives the rejection.
	assert.Equal(t, model.StatusSkipped, sess.Data()[0].Items[0].Status)
}

func TestSyncSessionReconcile(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("no server data pushes", func(t *testing.T) {
		sess := newTestSession(t, srv, afero.NewMemMapFs())
		sess.SetData(seedRoadmap(model.StatusInProgress))
		require.NoError(t, sess.Reconcile(ctx))
		assert.Equal(t, SyncSuccess, sess.Status())

		// The push landed: the server now reports the session synced.
		st, err := sess.CheckStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, "synced", st.Status)
	})

	t.Run("server ahead pulls", func(t *testing.T) {
		c, err := New(srv.URL, WithUserID("alice"))
		require.NoError(t, err)
		future := time.Now().UTC().Add(time.Hour).Format("2006-01-02T15:04:05.000Z")
		_, err = c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), future, false)
		require.NoError(t, err)

		sess := newTestSession(t, srv, afero.NewMemMapFs())
		sess.SetData(seedRoadmap(model.StatusPending))
		require.NoError(t, sess.Reconcile(ctx))
		assert.Equal(t, model.StatusCompleted, sess.Data()[0].Items[0].Status)
	})

	t.Run("synced does nothing", func(t *testing.T) {
		sess := newTestSession(t, srv, afero.NewMemMapFs())
		sess.SetData(seedRoadmap(model.StatusInProgress))
		require.NoError(t, sess.Reconcile(ctx))
		before := sess.Data()
		require.NoError(t, sess.Reconcile(ctx))
		assert.Equal(t, before, sess.Data())
	})
}

func TestSyncSessionCachePersistsAcrossSessions(t *testing.T) {
	srv := newTestServer(t)
	fs := afero.NewMemMapFs()

	first := newTestSession(t, srv, fs)
	first.SetData(seedRoadmap(model.StatusCompleted))

	second := newTestSession(t, srv, fs)
	require.Len(t, second.Data(), 1)
	assert.Equal(t, model.StatusCompleted, second.Data()[0].Items[0].Status)
}

func TestSyncSessionReset(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, srv, afero.NewMemMapFs())

	sess.SetData(seedRoadmap(model.StatusCompleted))
	sess.Reset()
	assert.Equal(t, model.StatusPending, sess.Data()[0].Items[0].Status)
}

func TestSyncSessionStartSeedsAndPushesPeriodically(t *testing.T) {
	srv := newTestServer(t)
	c, err := New(srv.URL, WithUserID("alice"))
	require.NoError(t, err)
	ctx := context.Background()

	// Server starts with data the fresh session does not have.
	_, err = c.PushProgress(ctx, seedRoadmap(model.StatusCompleted), model.NowISO(), false)
	require.NoError(t, err)

	sess := NewSyncSession(c, SyncConfig{
		Interval:  20 * time.Millisecond,
		CachePath: "/cache/state.json",
		Fs:        afero.NewMemMapFs(),
		Seed:      seedRoadmap(model.StatusPending),
	})
	sess.Start(ctx)
	defer sess.Stop()

	// The seed pull runs before Start returns.
	assert.Equal(t, model.StatusCompleted, sess.Data()[0].Items[0].Status)

	// A local edit propagates via the periodic pusher without an explicit
	// push call.
	sess.SetData(seedRoadmap(model.StatusSkipped))
	require.Eventually(t, func() bool {
		res, err := c.PullProgress(ctx, "")
		if err != nil || !res.HasUpdate || len(res.Data) == 0 {
			return false
		}
		return res.Data[0].Items[0].Status == model.StatusSkipped
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncSessionStopIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	sess := newTestSession(t, srv, afero.NewMemMapFs())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Start(ctx)
	sess.Stop()
	sess.Stop()
}
