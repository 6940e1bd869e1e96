// Package schema loads and validates declarative binary protocol
// definitions from YAML files. A definition names a protocol, its byte
// order, and a set of enums and structs; pkg/gen turns a validated
// Protocol into Go source built on pkg/bio.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError reports a protocol file that could not be parsed or validated.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("schema: %v", e.Err)
	}
	return fmt.Sprintf("schema: %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// document mirrors the YAML layout of a protocol file.
type document struct {
	Protocol struct {
		Name        string `yaml:"name"`
		Package     string `yaml:"package"`
		ByteOrder   string `yaml:"byte_order"`
		Description string `yaml:"description"`
	} `yaml:"protocol"`
	Enums   []Enum   `yaml:"enums"`
	Structs []Struct `yaml:"structs"`
}

// Load parses and validates a single YAML protocol file.
func Load(path string) (*Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	proto, err := Parse(data)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	proto.Source = path
	return proto, nil
}

// Parse parses and validates a protocol definition from raw YAML.
func Parse(data []byte) (*Protocol, error) {
	if len(data) == 0 || strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("empty protocol file")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	p := &Protocol{
		Name:        doc.Protocol.Name,
		Package:     doc.Protocol.Package,
		ByteOrder:   doc.Protocol.ByteOrder,
		Description: doc.Protocol.Description,
		Enums:       doc.Enums,
		Structs:     doc.Structs,
	}
	if p.ByteOrder == "" {
		p.ByteOrder = "little_endian"
	}
	if p.Package == "" {
		p.Package = strings.ToLower(p.Name)
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	if err := validateResolved(p); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPath loads a single YAML protocol file, or every definition in a
// directory.
func LoadPath(path string) ([]*Protocol, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	proto, err := Load(path)
	if err != nil {
		return nil, err
	}
	return []*Protocol{proto}, nil
}

// LoadDir loads every .yaml / .yml file in dir, sorted by name.
func LoadDir(dir string) ([]*Protocol, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ParseError{File: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ParseError{File: dir, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ParseError{File: dir, Err: err}
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, &ParseError{File: dir, Err: fmt.Errorf("no YAML files found")}
	}

	protocols := make([]*Protocol, 0, len(paths))
	for _, path := range paths {
		proto, err := Load(path)
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, proto)
	}
	return protocols, nil
}

func validate(p *Protocol) error {
	if p.Name == "" {
		return fmt.Errorf("protocol name is required")
	}
	if !identRe.MatchString(p.Name) {
		return fmt.Errorf("protocol name %q is not a valid identifier", p.Name)
	}
	if !identRe.MatchString(p.Package) {
		return fmt.Errorf("package %q is not a valid identifier", p.Package)
	}
	if p.ByteOrder != "little_endian" && p.ByteOrder != "big_endian" {
		return fmt.Errorf("byte_order must be little_endian or big_endian, got %q", p.ByteOrder)
	}

	for i := range p.Enums {
		if err := validateEnum(&p.Enums[i]); err != nil {
			return err
		}
	}
	for i := range p.Structs {
		if err := validateStruct(&p.Structs[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateEnum(e *Enum) error {
	if !identRe.MatchString(e.Name) {
		return fmt.Errorf("enum name %q is not a valid identifier", e.Name)
	}
	prim, ok := Primitives[e.Type]
	if !ok || prim.Name == "f32" || prim.Name == "f64" {
		return fmt.Errorf("enum %q: underlying type must be an integer primitive, got %q", e.Name, e.Type)
	}
	if len(e.Values) == 0 {
		return fmt.Errorf("enum %q has no values", e.Name)
	}
	seen := make(map[string]bool, len(e.Values))
	for _, v := range e.Values {
		if !identRe.MatchString(v.Name) {
			return fmt.Errorf("enum %q: value name %q is not a valid identifier", e.Name, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("enum %q: duplicate value name %q", e.Name, v.Name)
		}
		seen[v.Name] = true
		if !fitsPrimitive(prim, v.Value) {
			return fmt.Errorf("enum %q: value %q (%d) does not fit %s", e.Name, v.Name, int64(v.Value), e.Type)
		}
	}
	return nil
}

// fitsPrimitive reports whether v is representable by the integer primitive.
func fitsPrimitive(prim Primitive, v Int) bool {
	bits := uint(prim.Size * 8)
	if strings.HasPrefix(prim.Name, "i") {
		min := int64(-1) << (bits - 1)
		max := int64(1)<<(bits-1) - 1
		return int64(v) >= min && int64(v) <= max
	}
	if prim.Size == 8 {
		return true
	}
	return uint64(v)>>bits == 0
}

func validateStruct(s *Struct) error {
	if !identRe.MatchString(s.Name) {
		return fmt.Errorf("struct name %q is not a valid identifier", s.Name)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("struct %q has no fields", s.Name)
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if !identRe.MatchString(f.Name) {
			return fmt.Errorf("struct %q: field name %q is not a valid identifier", s.Name, f.Name)
		}
		if f.Type == "" {
			return fmt.Errorf("struct %q: field %q has no type", s.Name, f.Name)
		}
	}
	return nil
}

// validateResolved checks constraints that need field kinds: lengths, array
// element types, bitfield slices, padding sizes.
func validateResolved(p *Protocol) error {
	for si := range p.Structs {
		s := &p.Structs[si]
		for fi := range s.Fields {
			f := &s.Fields[fi]
			if err := validateField(p, s, fi, f); err != nil {
				return fmt.Errorf("struct %q: %w", s.Name, err)
			}
		}
	}
	return nil
}

func validateField(p *Protocol, s *Struct, idx int, f *Field) error {
	if f.Condition != "" {
		if err := checkCondition(s, idx, f); err != nil {
			return err
		}
	}

	switch f.Kind {
	case KindPadding:
		if f.PadSize <= 0 {
			return fmt.Errorf("padding field %q needs pad_size > 0", f.Name)
		}

	case KindBytes, KindString, KindArray:
		if f.Length.IsZero() {
			return fmt.Errorf("field %q of type %s needs a length", f.Name, f.Type)
		}
		if n, ok := f.Length.Literal(); ok {
			if n < 0 {
				return fmt.Errorf("field %q has negative length", f.Name)
			}
		} else if err := checkLengthRef(p, s, idx, f); err != nil {
			return err
		}
		if f.Kind == KindArray {
			if _, ok := Primitives[f.ElementType]; !ok {
				return fmt.Errorf("array field %q needs a primitive element_type, got %q", f.Name, f.ElementType)
			}
		}

	case KindBitfield:
		container := BitfieldTypes[f.Type]
		if len(f.Bits) == 0 {
			return fmt.Errorf("bitfield %q has no bit slices", f.Name)
		}
		for _, b := range f.Bits {
			if !identRe.MatchString(b.Name) {
				return fmt.Errorf("bitfield %q: slice name %q is not a valid identifier", f.Name, b.Name)
			}
			if b.Width <= 0 || b.Offset < 0 || b.Offset+b.Width > container.Size*8 {
				return fmt.Errorf("bitfield %q: slice %q does not fit in %d bits", f.Name, b.Name, container.Size*8)
			}
			if b.EnumType != "" {
				if _, ok := p.Enum(b.EnumType); !ok {
					return fmt.Errorf("bitfield %q: slice %q references unknown enum %q", f.Name, b.Name, b.EnumType)
				}
			}
		}

	case KindPrimitive:
		if f.Expected != nil {
			prim := Primitives[f.Type]
			if prim.Name == "f32" || prim.Name == "f64" {
				return fmt.Errorf("field %q: expected value is not allowed on float fields", f.Name)
			}
			if !fitsPrimitive(prim, *f.Expected) {
				return fmt.Errorf("field %q: expected value %d does not fit %s", f.Name, int64(*f.Expected), f.Type)
			}
		}

	case KindEnum:
		// nothing beyond kind resolution

	case KindStruct:
		if f.Expected != nil {
			return fmt.Errorf("field %q: expected value is not allowed on struct fields", f.Name)
		}
	}
	return nil
}

var condTokenRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// checkCondition verifies every identifier in a guard expression names an
// earlier field (or bit slice) of the same struct.
func checkCondition(s *Struct, idx int, f *Field) error {
	known := make(map[string]bool, idx)
	for i := 0; i < idx; i++ {
		prev := &s.Fields[i]
		known[prev.Name] = true
		for _, b := range prev.Bits {
			known[b.Name] = true
		}
	}

	for _, loc := range condTokenRe.FindAllStringIndex(f.Condition, -1) {
		if loc[0] > 0 {
			// skip the hex digits of literals such as 0x01
			if c := f.Condition[loc[0]-1]; c >= '0' && c <= '9' {
				continue
			}
		}
		ident := f.Condition[loc[0]:loc[1]]
		if !known[ident] {
			return fmt.Errorf("field %q: condition references unknown or later field %q", f.Name, ident)
		}
	}
	return nil
}

// checkLengthRef verifies a non-literal length names an earlier unsigned
// integer field in the same struct.
func checkLengthRef(p *Protocol, s *Struct, idx int, f *Field) error {
	ref := string(f.Length)
	for i := 0; i < idx; i++ {
		prev := &s.Fields[i]
		if prev.Name != ref {
			continue
		}
		prim, ok := Primitives[prev.Type]
		if !ok || strings.HasPrefix(prim.Name, "f") || strings.HasPrefix(prim.Name, "i") {
			return fmt.Errorf("field %q: length reference %q must be an unsigned integer field", f.Name, ref)
		}
		return nil
	}
	return fmt.Errorf("field %q: length references unknown or later field %q", f.Name, ref)
}
