package behavior

import (
	"github.com/cockroachdb/errors"

	"github.com/zeusync/behavior/pkg/arena"
	"github.com/zeusync/behavior/pkg/visitor"
)

// Visit saves or restores the whole tree: arena layout, handles, node
// variants and leaf behavior state. Restoring leaves needs the registry given
// with WithRegistry. A failed restore leaves t unchanged.
func (t *Tree[C]) Visit(name string, v *visitor.Visitor) error {
	nodes, root := t.nodes, t.root
	if v.IsReading() {
		nodes, root = arena.New[Node[C]](), NoNode[C]()
	}

	err := v.Region(name, func() error {
		if err := nodes.Visit("Nodes", v, t.visitNode); err != nil {
			if errors.Is(err, arena.ErrMalformed) {
				return errors.Mark(err, ErrMalformedTree)
			}
			return err
		}
		return root.Visit("Root", v)
	})
	if err != nil || !v.IsReading() {
		return err
	}

	if err := checkLoaded(nodes, root); err != nil {
		return err
	}
	t.nodes, t.root = nodes, root
	return nil
}

// checkLoaded rejects restored trees that Tick could not walk: a misplaced
// Root, Unknown nodes, dangling child handles and cycles.
func checkLoaded[C any](nodes *arena.Arena[Node[C]], root Handle[C]) error {
	n, ok := nodes.Get(root)
	if !ok {
		return errors.Wrapf(ErrMalformedTree, "root handle %s does not resolve", root)
	}
	if n.Kind() != KindRoot {
		return errors.Wrapf(ErrMalformedTree, "root handle %s holds a %s node", root, n.Kind())
	}

	var err error
	nodes.Range(func(h Handle[C], n Node[C]) bool {
		switch n := n.(type) {
		case *Root[C]:
			if h != root {
				err = errors.Wrapf(ErrMalformedTree, "second Root node at %s", h)
			}
		case *Composite[C]:
			for _, ch := range n.Children {
				c, ok := nodes.Get(ch)
				if !ok {
					err = errors.Wrapf(ErrMalformedTree, "composite %s has dangling child %s", h, ch)
					break
				}
				if c.Kind() == KindRoot {
					err = errors.Wrapf(ErrMalformedTree, "composite %s has the Root node as a child", h)
					break
				}
			}
		case *Leaf[C]:
		default:
			err = errors.Wrapf(ErrMalformedTree, "%s holds a %s node", h, n.Kind())
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	entry := n.(*Root[C]).Child
	if entry.IsNone() {
		return nil
	}
	if c, ok := nodes.Get(entry); !ok || c.Kind() == KindRoot {
		return errors.Wrapf(ErrMalformedTree, "entry handle %s does not resolve to a node below the root", entry)
	}
	return checkAcyclic(nodes, entry)
}

// checkAcyclic walks composites depth first. Shared subtrees are fine; a
// child that is still on the current path is not.
func checkAcyclic[C any](nodes *arena.Arena[Node[C]], entry Handle[C]) error {
	const (
		onPath = 1
		done   = 2
	)
	state := make(map[Handle[C]]int)

	var walk func(h Handle[C]) error
	walk = func(h Handle[C]) error {
		switch state[h] {
		case onPath:
			return errors.Wrapf(ErrMalformedTree, "cycle through %s", h)
		case done:
			return nil
		}
		state[h] = onPath
		if comp, ok := nodes.Get(h); ok {
			if comp, ok := comp.(*Composite[C]); ok {
				for _, ch := range comp.Children {
					if err := walk(ch); err != nil {
						return err
					}
				}
			}
		}
		state[h] = done
		return nil
	}
	return walk(entry)
}

func (t *Tree[C]) visitNode(name string, n *Node[C], v *visitor.Visitor) error {
	return v.Region(name, func() error {
		var kind string
		if !v.IsReading() {
			if *n == nil {
				return errors.Wrap(ErrMalformedTree, "nil node in arena")
			}
			kind = (*n).Kind().String()
		}
		if err := v.String("Kind", &kind); err != nil {
			return err
		}
		if v.IsReading() {
			k, err := ParseNodeKind(kind)
			if err != nil {
				return err
			}
			*n = t.emptyNode(k)
		}
		return (*n).Visit("Data", v)
	})
}

// emptyNode is the default value of each variant, filled in by Visit.
func (t *Tree[C]) emptyNode(kind NodeKind) Node[C] {
	switch kind {
	case KindRoot:
		return &Root[C]{}
	case KindComposite:
		return &Composite[C]{}
	case KindLeaf:
		return &Leaf[C]{registry: t.registry}
	default:
		return &Unknown[C]{}
	}
}
