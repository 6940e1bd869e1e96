package schema

import "fmt"

// Kind classifies a field's type after resolution.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindStruct
	KindBytes
	KindString
	KindArray
	KindBitfield
	KindPadding
)

// Primitive describes one built-in numeric type and the bio methods that
// transport it.
type Primitive struct {
	Name        string // yaml type name
	GoType      string
	ReadMethod  string // method on bio.Reader
	WriteMethod string // method on bio.Writer
	Size        int    // bytes
}

// Primitives maps yaml type names to their bio transport.
var Primitives = map[string]Primitive{
	"u8":  {"u8", "uint8", "ReadUint8", "WriteUint8", 1},
	"u16": {"u16", "uint16", "ReadUint16", "WriteUint16", 2},
	"u32": {"u32", "uint32", "ReadUint32", "WriteUint32", 4},
	"u64": {"u64", "uint64", "ReadUint64", "WriteUint64", 8},
	"i8":  {"i8", "int8", "ReadInt8", "WriteInt8", 1},
	"i16": {"i16", "int16", "ReadInt16", "WriteInt16", 2},
	"i32": {"i32", "int32", "ReadInt32", "WriteInt32", 4},
	"i64": {"i64", "int64", "ReadInt64", "WriteInt64", 8},
	"f32": {"f32", "float32", "ReadFloat32", "WriteFloat32", 4},
	"f64": {"f64", "float64", "ReadFloat64", "WriteFloat64", 8},
}

// BitfieldTypes maps bitfield container type names to the primitive that
// carries them on the wire.
var BitfieldTypes = map[string]Primitive{
	"bitfield_u8":  Primitives["u8"],
	"bitfield_u16": Primitives["u16"],
	"bitfield_u32": Primitives["u32"],
}

// EnumValue is one named constant within an enum.
type EnumValue struct {
	Name        string `yaml:"name"`
	Value       Int    `yaml:"value"`
	Description string `yaml:"description"`
}

// Enum is an enumeration backed by a primitive integer type.
type Enum struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // key into Primitives
	Values      []EnumValue `yaml:"values"`
	Description string      `yaml:"description"`
}

// Underlying returns the primitive carrying this enum on the wire.
func (e *Enum) Underlying() Primitive { return Primitives[e.Type] }

// Bit is one named bit-slice within a bitfield.
type Bit struct {
	Name        string `yaml:"name"`
	Offset      int    `yaml:"offset"` // bit offset from LSB
	Width       int    `yaml:"width"`
	Description string `yaml:"description"`
	EnumType    string `yaml:"type"` // enum name if the slice maps to an enum
}

// Field is a single field inside a struct definition.
type Field struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`

	// Bytes/string/array length: an integer literal or the name of a
	// previously decoded integer field.
	Length Expr `yaml:"length"`

	// Array element type.
	ElementType string `yaml:"element_type"`

	// Expected value check (magic numbers, version guards).
	Expected *Int `yaml:"expected"`

	// Padding size in bytes.
	PadSize int `yaml:"pad_size"`

	// Guard expression for conditional fields, e.g. "flags & 0x01".
	Condition string `yaml:"condition"`

	// Bit-slice definitions for bitfield types.
	Bits []Bit `yaml:"bits"`

	// Resolved during Protocol.resolve.
	Kind Kind `yaml:"-"`
}

// Struct is a binary-serializable record definition.
type Struct struct {
	Name        string  `yaml:"name"`
	Fields      []Field `yaml:"fields"`
	Description string  `yaml:"description"`
}

// Protocol is the top-level definition parsed from one YAML file.
type Protocol struct {
	Name        string
	Package     string // Go package name for generated code
	ByteOrder   string // "little_endian" or "big_endian"
	Description string
	Source      string // file the protocol was loaded from, if any
	Enums       []Enum
	Structs     []Struct

	enumMap   map[string]*Enum
	structMap map[string]*Struct
}

// Enum returns the enum definition with the given name, if any.
func (p *Protocol) Enum(name string) (*Enum, bool) {
	e, ok := p.enumMap[name]
	return e, ok
}

// Struct returns the struct definition with the given name, if any.
func (p *Protocol) Struct(name string) (*Struct, bool) {
	s, ok := p.structMap[name]
	return s, ok
}

// resolve builds lookup maps and classifies every field.
func (p *Protocol) resolve() error {
	p.enumMap = make(map[string]*Enum, len(p.Enums))
	for i := range p.Enums {
		p.enumMap[p.Enums[i].Name] = &p.Enums[i]
	}
	p.structMap = make(map[string]*Struct, len(p.Structs))
	for i := range p.Structs {
		p.structMap[p.Structs[i].Name] = &p.Structs[i]
	}

	for si := range p.Structs {
		s := &p.Structs[si]
		for fi := range s.Fields {
			f := &s.Fields[fi]
			kind, err := p.resolveKind(f)
			if err != nil {
				return err
			}
			f.Kind = kind
		}
	}
	return nil
}

func (p *Protocol) resolveKind(f *Field) (Kind, error) {
	switch {
	case f.Type == "padding":
		return KindPadding, nil
	case f.Type == "bytes":
		return KindBytes, nil
	case f.Type == "string":
		return KindString, nil
	case f.Type == "array":
		return KindArray, nil
	}
	if _, ok := BitfieldTypes[f.Type]; ok {
		return KindBitfield, nil
	}
	if _, ok := p.enumMap[f.Type]; ok {
		return KindEnum, nil
	}
	if _, ok := p.structMap[f.Type]; ok {
		return KindStruct, nil
	}
	if _, ok := Primitives[f.Type]; ok {
		return KindPrimitive, nil
	}
	return 0, fmt.Errorf("unknown type %q in field %q", f.Type, f.Name)
}
