package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"roadmap-backend/internal/model"
)

// SyncStatus is the coarse session state exposed to callers.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)

// DefaultSyncInterval is how often the background pusher fires.
const DefaultSyncInterval = 30 * time.Second

// SyncConfig tunes a SyncSession. Zero values fall back to sane defaults;
// Seed is the roadmap used when no cache file exists yet.
type SyncConfig struct {
	Interval  time.Duration
	CachePath string
	Fs        afero.Fs
	Seed      model.Roadmap
}

// SyncSession owns a local working copy of the roadmap and keeps it
// reconciled with the server. Local edits land immediately via SetData
// and flow upstream on the next push; the server copy flows back on pull.
//
// The periodic pusher is deliberately blind: every tick uploads the
// current in-memory data stamped with the current wall clock, without
// consulting checkStatus first. Combined with the server's last-write-wins
// guard this means a long-lived session steadily overwrites the server
// document, which is the intended single-user behavior.
//
// All sync operations are serialized by an internal mutex. A tick that
// lands while another sync is still running is skipped, not queued.
type SyncSession struct {
	client   *Client
	cache    *stateCache
	seed     model.Roadmap
	interval time.Duration

	mu             sync.Mutex
	data           model.Roadmap
	localTimestamp string
	lastSyncTime   string
	status         SyncStatus

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSyncSession builds a session seeded from the local cache file when
// one exists, otherwise from cfg.Seed. It does not touch the network;
// call Start (or Pull) to talk to the server.
func NewSyncSession(c *Client, cfg SyncConfig) *SyncSession {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncInterval
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	s := &SyncSession{
		client:   c,
		cache:    newStateCache(cfg.Fs, cfg.CachePath),
		seed:     cfg.Seed,
		interval: cfg.Interval,
		data:     cfg.Seed,
		status:   SyncIdle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if st := s.cache.load(); st != nil && st.Data != nil {
		s.data = st.Data
		s.localTimestamp = st.LocalTimestamp
		s.lastSyncTime = st.LastSyncTime
	}
	return s
}

// Data returns the current in-memory roadmap.
func (s *SyncSession) Data() model.Roadmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Status returns the session's last sync outcome.
func (s *SyncSession) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastSyncTime returns when the session last exchanged data with the
// server, empty if it never has.
func (s *SyncSession) LastSyncTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncTime
}

// SetData replaces the working copy with a local edit. The edit takes
// effect immediately, refreshes the local timestamp, and is written
// through to the cache file; the server learns about it on the next push.
func (s *SyncSession) SetData(data model.Roadmap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.localTimestamp = model.NowISO()
	s.persistLocked()
}

// Reset discards local edits and restores the seed roadmap. The reset is
// itself a local edit, so the next push propagates it to the server.
func (s *SyncSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = s.seed
	s.localTimestamp = model.NowISO()
	s.persistLocked()
}

// Push uploads the working copy under the server's last-write-wins guard.
// On conflict the local data is left untouched and ErrConflict is
// returned with the winning server document.
func (s *SyncSession) Push(ctx context.Context) (*PushResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushLocked(ctx, s.localTimestamp)
}

// Pull downloads the server document. When the server has an update the
// working copy is overwritten wholesale; local edits made since the last
// push are lost, which is the intended last-write-wins outcome. When the
// server reports no update the working copy is left untouched.
func (s *SyncSession) Pull(ctx context.Context) (*PullResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pullLocked(ctx, s.lastSyncTime)
}

// CheckStatus asks the server which side is ahead without moving data.
func (s *SyncSession) CheckStatus(ctx context.Context) (*StatusResult, error) {
	s.mu.Lock()
	local := s.localTimestamp
	s.mu.Unlock()
	return s.client.SyncStatus(ctx, local)
}

// Reconcile runs one full sync cycle: a status check followed by at most
// one data-moving call. need_pull resolves by pulling, need_push and
// no_server_data by pushing, synced by doing nothing. Any failure leaves
// the working copy untouched and the status at error.
func (s *SyncSession) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = SyncSyncing
	st, err := s.client.SyncStatus(ctx, s.localTimestamp)
	if err != nil {
		s.status = SyncError
		return err
	}

	switch {
	case st.NeedPull:
		_, err = s.pullLocked(ctx, s.lastSyncTime)
	case st.NeedPush:
		_, err = s.pushLocked(ctx, s.localTimestamp)
	default:
		s.status = SyncSuccess
	}
	return err
}

// Start seeds the session with one unconditional pull, then runs the
// periodic pusher until ctx is cancelled or Stop is called. The seed pull
// ignores lastSyncTime so a fresh session always converges on the server
// copy first. A seed-pull failure is logged, not fatal: the session keeps
// its local data and the pusher starts anyway.
func (s *SyncSession) Start(ctx context.Context) {
	s.mu.Lock()
	if _, err := s.pullLocked(ctx, ""); err != nil {
		log.Warn().Err(err).Msg("seed pull failed, continuing with local data")
	}
	s.mu.Unlock()

	go s.run(ctx)
}

// Stop halts the periodic pusher and waits for any in-flight tick to
// finish. Safe to call more than once.
func (s *SyncSession) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *SyncSession) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one blind periodic push. If a sync is already holding the
// lock the tick is dropped rather than queued behind it.
func (s *SyncSession) tick(ctx context.Context) {
	if !s.mu.TryLock() {
		syncTicksSkippedTotal.Inc()
		return
	}
	defer s.mu.Unlock()
	if _, err := s.pushLocked(ctx, model.NowISO()); err != nil {
		log.Debug().Err(err).Msg("periodic push failed")
	}
}

// pushLocked uploads the working copy stamped with ts. Caller holds mu.
func (s *SyncSession) pushLocked(ctx context.Context, ts string) (*PushResult, error) {
	s.status = SyncSyncing
	res, err := s.client.PushProgress(ctx, s.data, ts, false)
	if err != nil {
		s.status = SyncError
		if IsConflict(err) {
			syncPushesTotal.WithLabelValues("conflict").Inc()
		} else {
			syncPushesTotal.WithLabelValues("error").Inc()
		}
		return res, err
	}
	syncPushesTotal.WithLabelValues("success").Inc()
	s.lastSyncTime = model.NowISO()
	s.status = SyncSuccess
	s.persistLocked()
	return res, nil
}

// pullLocked downloads the server document, overwriting the working copy
// when the server reports an update. Caller holds mu.
func (s *SyncSession) pullLocked(ctx context.Context, lastSync string) (*PullResult, error) {
	s.status = SyncSyncing
	res, err := s.client.PullProgress(ctx, lastSync)
	if err != nil {
		s.status = SyncError
		syncPullsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if res.HasUpdate && res.Data != nil {
		s.data = res.Data
		s.localTimestamp = res.Timestamp
		syncPullsTotal.WithLabelValues("updated").Inc()
	} else {
		syncPullsTotal.WithLabelValues("noop").Inc()
	}
	s.lastSyncTime = model.NowISO()
	s.status = SyncSuccess
	s.persistLocked()
	return res, nil
}

// persistLocked writes the cache file, best effort. Caller holds mu.
func (s *SyncSession) persistLocked() {
	st := &cachedState{
		Data:           s.data,
		LocalTimestamp: s.localTimestamp,
		LastSyncTime:   s.lastSyncTime,
	}
	if err := s.cache.save(st); err != nil {
		log.Debug().Err(err).Msg("failed to persist sync cache")
	}
}
