package circuitbreaker

import "errors"

// ErrCircuitOpen is returned when the breaker rejects a call, either
// because it is open or because the half-open trial quota is used up.
var ErrCircuitOpen = errors.New("circuit breaker is open")
