package client

import "errors"

var errEmptyBaseURL = errors.New("baseURL cannot be empty")

// ErrConflict is returned by PushProgress when the server rejected the
// push because its stored document is newer. The winning server document
// travels on PushResult.ServerData; callers reconcile by pulling.
var ErrConflict = errors.New("push conflict (server has newer data)")

// IsConflict reports whether err is a push-conflict rejection.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// ErrSyncInFlight is returned when a sync is requested while another one
// for the same session is still running.
var ErrSyncInFlight = errors.New("sync already in flight")
