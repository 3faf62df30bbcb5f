package door

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/pkg/visitor"
)

// Snapshot is a paused door run: the tree with its leaf state and the
// environment it was ticking.
type Snapshot struct {
	Tree *behavior.Tree[Environment]
	Env  Environment
}

func (s *Snapshot) Visit(name string, v *visitor.Visitor) error {
	return v.Region(name, func() error {
		if err := s.Tree.Visit("Tree", v); err != nil {
			return errors.Wrap(err, "tree")
		}
		return errors.Wrap(s.Env.Visit("Environment", v), "environment")
	})
}

// IsText reports whether path names a text snapshot.
func IsText(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".txt":
		return true
	}
	return false
}

// SaveSnapshot writes s to path, as text for .yaml/.yml/.txt and binary otherwise.
func SaveSnapshot(path string, s *Snapshot) error {
	w := visitor.New()
	if err := s.Visit("Snapshot", w); err != nil {
		return err
	}
	if IsText(path) {
		return w.SaveTextFile(path)
	}
	return w.SaveBinaryFile(path)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Trees are rebuilt
// with opts, which must carry a registry knowing every saved behavior.
func LoadSnapshot(path string, opts ...behavior.Option[Environment]) (*Snapshot, error) {
	var (
		r   *visitor.Visitor
		err error
	)
	if IsText(path) {
		r, err = visitor.LoadTextFile(path)
	} else {
		r, err = visitor.LoadBinaryFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	if len(opts) == 0 {
		opts = []behavior.Option[Environment]{behavior.WithRegistry(NewRegistry())}
	}
	s := &Snapshot{Tree: behavior.New(opts...)}
	if err := s.Visit("Snapshot", r); err != nil {
		return nil, err
	}
	return s, nil
}
