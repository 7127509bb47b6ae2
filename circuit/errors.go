package circuit

import "errors"

// ErrCircuitOpen is returned by Execute when the breaker is OPEN, or
// HALF_OPEN with a probe already in flight.
var ErrCircuitOpen = errors.New("circuit: breaker is open")

// ErrAlreadyRegistered is returned by Registry.Register when a breaker
// already exists under the given name.
var ErrAlreadyRegistered = errors.New("circuit: breaker already registered")

// ErrNotFound is returned when a named breaker does not exist in the
// registry.
var ErrNotFound = errors.New("circuit: breaker not found")
