package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Int is an integer constant that may be written in YAML as a plain integer
// or as a hex string such as "0xDEADBEEF". Values up to the full uint64
// range are accepted; the bit pattern is preserved.
type Int int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Int) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar for integer value, got %v", node.Kind)
	}
	if v, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
		*i = Int(v)
		return nil
	}
	// large unsigned constants such as 0xFFFFFFFFFFFFFFFF
	v, err := strconv.ParseUint(node.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("cannot parse %q as integer", node.Value)
	}
	*i = Int(int64(v))
	return nil
}

// Uint64 returns the value's bit pattern as an unsigned integer.
func (i Int) Uint64() uint64 { return uint64(i) }

// Expr is a scalar that is either an integer literal or the name of a field.
// YAML integers are preserved as their literal text.
type Expr string

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar for length, got %v", node.Kind)
	}
	*e = Expr(node.Value)
	return nil
}

// Literal returns the expression's integer value when it is a literal.
func (e Expr) Literal() (int, bool) {
	v, err := strconv.ParseInt(string(e), 0, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// IsZero reports whether the expression is absent.
func (e Expr) IsZero() bool { return e == "" }
