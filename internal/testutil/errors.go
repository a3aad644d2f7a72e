package testutil

import "errors"

// ErrSimulated is returned by fakes to exercise error paths (store outages, failed inserts).
var ErrSimulated = errors.New("simulated error for testing")
