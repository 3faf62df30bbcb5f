package behavior

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config describes a tree in JSON or YAML. Nodes are named; composites list
// their children by name and leaves name a registered behavior kind.
type Config struct {
	Root  string                `json:"root" yaml:"root"`
	Nodes map[string]ConfigNode `json:"nodes" yaml:"nodes"`
}

type ConfigNode struct {
	Type     string         `json:"type" yaml:"type"`
	Children []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Behavior string         `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON decodes a tree config. Unknown fields are rejected.
func LoadJSON(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	c := new(Config)
	if err := dec.Decode(c); err != nil {
		return nil, errors.Wrap(err, "decode json tree config")
	}
	return c, nil
}

// LoadYAML is LoadJSON for YAML documents.
func LoadYAML(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	c := new(Config)
	if err := dec.Decode(c); err != nil {
		return nil, errors.Wrap(err, "decode yaml tree config")
	}
	return c, nil
}

// LoadFile picks the decoder from the file extension; anything but .json is YAML.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// Build constructs a tree from c. Leaf params are decoded into the behavior
// returned by the registry. A node referenced by several composites is added
// once and its handle shared.
func Build[C any](c *Config, reg *Registry[C], opts ...Option[C]) (*Tree[C], error) {
	t := New(append([]Option[C]{WithRegistry(reg)}, opts...)...)
	if c.Root == "" {
		return t, nil
	}

	created := make(map[string]Handle[C])
	building := make(map[string]bool)

	var buildNode func(name string) (Handle[C], error)
	buildNode = func(name string) (Handle[C], error) {
		if h, ok := created[name]; ok {
			return h, nil
		}
		if building[name] {
			return NoNode[C](), errors.Wrapf(ErrCycle, "through %q", name)
		}
		nc, ok := c.Nodes[name]
		if !ok {
			return NoNode[C](), errors.Wrapf(ErrUnknownNode, "%q", name)
		}
		building[name] = true
		defer delete(building, name)

		var h Handle[C]
		switch strings.ToLower(nc.Type) {
		case "sequence", "selector":
			typ, err := ParseCompositeType(nc.Type)
			if err != nil {
				return NoNode[C](), err
			}
			children := make([]Handle[C], 0, len(nc.Children))
			for _, chname := range nc.Children {
				ch, err := buildNode(chname)
				if err != nil {
					return NoNode[C](), err
				}
				children = append(children, ch)
			}
			h = t.AddNode(NewComposite[C](typ, children...))
		case "leaf", "action":
			b, err := newBehavior(reg, nc)
			if err != nil {
				return NoNode[C](), errors.Wrapf(err, "node %q", name)
			}
			h = t.AddNode(NewLeaf[C](b))
		default:
			return NoNode[C](), errors.Wrapf(ErrUnknownNodeType, "node %q: %q", name, nc.Type)
		}
		created[name] = h
		return h, nil
	}

	entry, err := buildNode(c.Root)
	if err != nil {
		return nil, err
	}
	t.SetEntryNode(entry)
	return t, nil
}

func newBehavior[C any](reg *Registry[C], nc ConfigNode) (Behavior[C], error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	b, err := reg.New(nc.Behavior)
	if err != nil {
		return nil, err
	}
	if len(nc.Params) == 0 {
		return b, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           b,
	})
	if err != nil {
		return nil, err
	}
	if err = dec.Decode(nc.Params); err != nil {
		return nil, errors.Wrapf(err, "params for behavior %q", nc.Behavior)
	}
	return b, nil
}
