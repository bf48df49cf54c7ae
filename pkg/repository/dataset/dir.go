package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kiken/pkg/domain/interfaces"
)

// Dir reads dataset resources from files in a local directory
type Dir struct {
	root string
}

var _ interfaces.Source = &Dir{}

// NewDir creates a directory-backed source rooted at root
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Fetch reads the named resource file. Names containing path separators are
// rejected to keep lookups inside the root.
func (d *Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return nil, goerr.Wrap(ErrUnknownResource, "invalid resource name", goerr.V("name", name))
	}

	path := filepath.Join(d.root, name)
	data, err := os.ReadFile(path) // #nosec G304 - name is validated above, root comes from CLI config
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dataset file", goerr.V("path", path))
	}

	return data, nil
}
