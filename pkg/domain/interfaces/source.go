package interfaces

import "context"

// Source fetches one raw dataset resource by its logical name. Implementations
// cover local directories and HTTP origins; the loader decides names and
// performs all parsing and validation.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}
