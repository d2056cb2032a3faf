package stats

import "errors"

// ErrStoreUnavailable is returned when a reporting read keeps failing after
// all retries.
var ErrStoreUnavailable = errors.New("store unavailable")
