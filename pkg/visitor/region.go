package visitor

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Kind identifies which member of Field carries the value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
)

var kindNames = map[Kind]string{
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return errors.Newf("unknown field kind %q", s)
}

// Field is a named scalar value.
type Field struct {
	Name  string  `yaml:"name"`
	Kind  Kind    `yaml:"kind"`
	Bool  bool    `yaml:"bool,omitempty"`
	Int   int64   `yaml:"int,omitempty"`
	Uint  uint64  `yaml:"uint,omitempty"`
	Float float64 `yaml:"float,omitempty"`
	Str   string  `yaml:"str,omitempty"`
}

// Region is a named group of fields and nested regions. Order is preserved.
type Region struct {
	Name    string    `yaml:"name"`
	Fields  []Field   `yaml:"fields,omitempty"`
	Regions []*Region `yaml:"regions,omitempty"`
}

func (r *Region) region(name string) *Region {
	for _, child := range r.Regions {
		if child.Name == name {
			return child
		}
	}
	return nil
}

func (r *Region) field(name string) *Field {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}
