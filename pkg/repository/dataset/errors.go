package dataset

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for dataset loading
var (
	// ErrLoadFailed wraps any fetch, parse or validation failure of a load
	// attempt. No partial dataset is ever cached.
	ErrLoadFailed = goerr.New("failed to load safety dataset")

	// ErrUnknownResource is returned by sources for resource names outside
	// the known set
	ErrUnknownResource = goerr.New("unknown dataset resource")
)
