package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repository lookups for absent records.
// Both backends wrap it so callers can classify with errors.Is.
var ErrNotFound = goerr.New("record not found")
