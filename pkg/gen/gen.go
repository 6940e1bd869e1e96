// Package gen emits Go source from validated protocol definitions. Each
// protocol becomes one file containing enum types, struct types, and
// Parse/Serialize methods that chain pkg/bio operations, short-circuiting
// on the first failure.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/binary-io/binaryio/pkg/schema"
)

const bioImport = "github.com/binary-io/binaryio/pkg/bio"

// Generate renders gofmt-formatted Go source implementing proto.
// sourceFile names the YAML file for the generated-code header.
func Generate(proto *schema.Protocol, sourceFile string) ([]byte, error) {
	g := &generator{proto: proto}
	g.file(sourceFile)

	src, err := format.Source(g.buf.Bytes())
	if err != nil {
		// include the unformatted source, the error references its lines
		return nil, fmt.Errorf("gen: formatting %s: %w\n%s", proto.Name, err, g.buf.Bytes())
	}
	return src, nil
}

// GenerateFile writes the generated source for proto into dir, named after
// the protocol's package, and returns the written path.
func GenerateFile(proto *schema.Protocol, dir, sourceFile string) (string, error) {
	src, err := Generate(proto, sourceFile)
	if err != nil {
		return "", err
	}
	out := filepath.Join(dir, proto.Package+".gen.go")
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("gen: %w", err)
	}
	return out, nil
}

type generator struct {
	proto *schema.Protocol
	buf   bytes.Buffer
}

func (g *generator) p(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *generator) file(sourceFile string) {
	p := g.proto

	g.p("// Code generated by bio generate from %s. DO NOT EDIT.", sourceFile)
	g.p("")
	if p.Description != "" {
		g.p("// Package %s implements the %s protocol: %s", p.Package, p.Name, p.Description)
	} else {
		g.p("// Package %s implements the %s binary protocol.", p.Package, p.Name)
	}
	g.p("package %s", p.Package)
	g.p("")

	g.imports()

	g.p("// ByteOrder is the byte order every %s message uses on the wire.", p.Name)
	g.p("var ByteOrder = bio.%s", g.orderName())
	g.p("")

	for i := range p.Enums {
		g.enum(&p.Enums[i])
	}
	for i := range p.Structs {
		g.strct(&p.Structs[i])
	}
}

func (g *generator) imports() {
	needFmt := false
	for _, s := range g.proto.Structs {
		for _, f := range s.Fields {
			if f.Expected != nil {
				needFmt = true
			}
		}
	}

	g.p("import (")
	if needFmt {
		g.p("%q", "fmt")
		g.p("")
	}
	g.p("%q", bioImport)
	g.p(")")
	g.p("")
}

func (g *generator) orderName() string {
	if g.proto.ByteOrder == "big_endian" {
		return "BigEndian"
	}
	return "LittleEndian"
}

func (g *generator) enum(e *schema.Enum) {
	name := goName(e.Name)
	if e.Description != "" {
		g.p("// %s is %s", name, e.Description)
	} else {
		g.p("// %s is transported as %s on the wire.", name, e.Type)
	}
	g.p("type %s %s", name, e.Underlying().GoType)
	g.p("")
	g.p("const (")
	for _, v := range e.Values {
		if v.Description != "" {
			g.p("// %s%s: %s", name, goName(v.Name), v.Description)
		}
		g.p("%s%s %s = %s", name, goName(v.Name), name, enumLiteral(e, v.Value))
	}
	g.p(")")
	g.p("")
}

func (g *generator) strct(s *schema.Struct) {
	name := goName(s.Name)
	if s.Description != "" {
		g.p("// %s is %s", name, s.Description)
	}
	g.p("type %s struct {", name)
	for i := range s.Fields {
		g.member(&s.Fields[i])
	}
	g.p("}")
	g.p("")

	g.parse(s)
	g.serialize(s)
}

func (g *generator) member(f *schema.Field) {
	switch f.Kind {
	case schema.KindPadding:
		// no member, skipped on the wire

	case schema.KindPrimitive:
		g.p("%s %s", goName(f.Name), schema.Primitives[f.Type].GoType)

	case schema.KindEnum:
		g.p("%s %s", goName(f.Name), goName(f.Type))

	case schema.KindStruct:
		g.p("%s %s", goName(f.Name), goName(f.Type))

	case schema.KindBytes:
		if n, ok := f.Length.Literal(); ok {
			g.p("%s [%d]byte", goName(f.Name), n)
		} else {
			g.p("%s []byte", goName(f.Name))
		}

	case schema.KindString:
		g.p("%s string", goName(f.Name))

	case schema.KindArray:
		elem := schema.Primitives[f.ElementType].GoType
		if n, ok := f.Length.Literal(); ok {
			g.p("%s [%d]%s", goName(f.Name), n, elem)
		} else {
			g.p("%s []%s", goName(f.Name), elem)
		}

	case schema.KindBitfield:
		for _, b := range f.Bits {
			g.p("%s %s", goName(b.Name), g.bitType(b))
		}
	}
}

// bitType returns the Go type holding one bit slice: bool for single bits,
// the referenced enum, or the smallest unsigned integer that fits.
func (g *generator) bitType(b schema.Bit) string {
	if b.EnumType != "" {
		return goName(b.EnumType)
	}
	switch {
	case b.Width == 1:
		return "bool"
	case b.Width <= 8:
		return "uint8"
	case b.Width <= 16:
		return "uint16"
	default:
		return "uint32"
	}
}

func (g *generator) parse(s *schema.Struct) {
	name := goName(s.Name)
	g.p("// Parse decodes a %s from r, consuming exactly the encoded bytes on", name)
	g.p("// success. On failure the cursor stays at the failing field.")
	g.p("func (m *%s) Parse(r *bio.Reader) error {", name)
	for i := range s.Fields {
		g.parseField(s, &s.Fields[i])
	}
	g.p("return nil")
	g.p("}")
	g.p("")
}

func (g *generator) parseField(s *schema.Struct, f *schema.Field) {
	if f.Condition != "" {
		g.p("if %s {", g.condition(s, f.Condition))
		defer g.p("}")
	}

	switch f.Kind {
	case schema.KindPadding:
		g.p("if err := r.Skip(%d); err != nil {\nreturn err\n}", f.PadSize)

	case schema.KindPrimitive:
		prim := schema.Primitives[f.Type]
		g.p("{")
		g.p("v, err := r.%s()", prim.ReadMethod)
		g.p("if err != nil {\nreturn err\n}")
		if f.Expected != nil {
			lit := expectedLiteral(f)
			g.p("if v != %s {\nreturn fmt.Errorf(%q, v)\n}",
				lit, f.Name+": expected "+lit+", got %v")
		}
		g.p("m.%s = v", goName(f.Name))
		g.p("}")

	case schema.KindEnum:
		enum, _ := g.proto.Enum(f.Type)
		g.p("{")
		g.p("raw, err := r.%s()", enum.Underlying().ReadMethod)
		g.p("if err != nil {\nreturn err\n}")
		g.enumSwitch("raw", "m."+goName(f.Name), enum)
		g.p("}")

	case schema.KindStruct:
		g.p("if err := m.%s.Parse(r); err != nil {\nreturn err\n}", goName(f.Name))

	case schema.KindBytes:
		if _, ok := f.Length.Literal(); ok {
			g.p("if err := r.ReadBytes(m.%s[:]); err != nil {\nreturn err\n}", goName(f.Name))
		} else {
			g.p("m.%s = make([]byte, int(m.%s))", goName(f.Name), goName(string(f.Length)))
			g.p("if err := r.ReadBytes(m.%s); err != nil {\nreturn err\n}", goName(f.Name))
		}

	case schema.KindString:
		g.p("{")
		if n, ok := f.Length.Literal(); ok {
			g.p("buf := make([]byte, %d)", n)
		} else {
			g.p("buf := make([]byte, int(m.%s))", goName(string(f.Length)))
		}
		g.p("if err := r.ReadBytes(buf); err != nil {\nreturn err\n}")
		g.p("m.%s = string(buf)", goName(f.Name))
		g.p("}")

	case schema.KindArray:
		elem := schema.Primitives[f.ElementType]
		if _, ok := f.Length.Literal(); !ok {
			g.p("m.%s = make([]%s, int(m.%s))", goName(f.Name), elem.GoType, goName(string(f.Length)))
		}
		g.p("for i := range m.%s {", goName(f.Name))
		g.p("v, err := r.%s()", elem.ReadMethod)
		g.p("if err != nil {\nreturn err\n}")
		g.p("m.%s[i] = v", goName(f.Name))
		g.p("}")

	case schema.KindBitfield:
		container := schema.BitfieldTypes[f.Type]
		g.p("{")
		g.p("raw, err := r.%s()", container.ReadMethod)
		g.p("if err != nil {\nreturn err\n}")
		for _, b := range f.Bits {
			mask := uint64(1)<<uint(b.Width) - 1
			extract := fmt.Sprintf("raw >> %d & %#x", b.Offset, mask)
			switch {
			case b.EnumType != "":
				enum, _ := g.proto.Enum(b.EnumType)
				g.enumSwitch(fmt.Sprintf("%s(%s)", enum.Underlying().GoType, extract),
					"m."+goName(b.Name), enum)
			case b.Width == 1:
				g.p("m.%s = %s != 0", goName(b.Name), extract)
			default:
				g.p("m.%s = %s(%s)", goName(b.Name), g.bitType(b), extract)
			}
		}
		g.p("}")
	}
}

// enumSwitch assigns target from a raw wire value, falling back to the
// enum's first value for anything unknown.
func (g *generator) enumSwitch(rawExpr, target string, e *schema.Enum) {
	name := goName(e.Name)
	g.p("switch %s {", rawExpr)
	for _, v := range e.Values {
		g.p("case %s:", enumLiteral(e, v.Value))
		g.p("%s = %s%s", target, name, goName(v.Name))
	}
	g.p("default:")
	g.p("%s = %s%s", target, name, goName(e.Values[0].Name))
	g.p("}")
}

func (g *generator) serialize(s *schema.Struct) {
	name := goName(s.Name)
	g.p("// Serialize encodes m into w. On failure the cursor stays at the")
	g.p("// failing field and nothing past it is written.")
	g.p("func (m *%s) Serialize(w *bio.Writer) error {", name)
	for i := range s.Fields {
		g.serializeField(s, &s.Fields[i])
	}
	g.p("return nil")
	g.p("}")
	g.p("")
}

func (g *generator) serializeField(s *schema.Struct, f *schema.Field) {
	if f.Condition != "" {
		g.p("if %s {", g.condition(s, f.Condition))
		defer g.p("}")
	}

	switch f.Kind {
	case schema.KindPadding:
		g.p("if err := w.Skip(%d); err != nil {\nreturn err\n}", f.PadSize)

	case schema.KindPrimitive:
		prim := schema.Primitives[f.Type]
		g.p("if err := w.%s(m.%s); err != nil {\nreturn err\n}", prim.WriteMethod, goName(f.Name))

	case schema.KindEnum:
		enum, _ := g.proto.Enum(f.Type)
		g.p("if err := w.%s(%s(m.%s)); err != nil {\nreturn err\n}",
			enum.Underlying().WriteMethod, enum.Underlying().GoType, goName(f.Name))

	case schema.KindStruct:
		g.p("if err := m.%s.Serialize(w); err != nil {\nreturn err\n}", goName(f.Name))

	case schema.KindBytes:
		if _, ok := f.Length.Literal(); ok {
			g.p("if err := w.WriteBytes(m.%s[:]); err != nil {\nreturn err\n}", goName(f.Name))
		} else {
			g.p("if err := w.WriteBytes(m.%s); err != nil {\nreturn err\n}", goName(f.Name))
		}

	case schema.KindString:
		if n, ok := f.Length.Literal(); ok {
			// fixed-width string fields are zero padded on the wire
			g.p("{")
			g.p("buf := make([]byte, %d)", n)
			g.p("copy(buf, m.%s)", goName(f.Name))
			g.p("if err := w.WriteBytes(buf); err != nil {\nreturn err\n}")
			g.p("}")
		} else {
			g.p("if err := w.WriteBytes([]byte(m.%s)); err != nil {\nreturn err\n}", goName(f.Name))
		}

	case schema.KindArray:
		elem := schema.Primitives[f.ElementType]
		g.p("for _, v := range m.%s {", goName(f.Name))
		g.p("if err := w.%s(v); err != nil {\nreturn err\n}", elem.WriteMethod)
		g.p("}")

	case schema.KindBitfield:
		container := schema.BitfieldTypes[f.Type]
		g.p("{")
		g.p("var raw %s", container.GoType)
		for _, b := range f.Bits {
			mask := uint64(1)<<uint(b.Width) - 1
			switch {
			case b.EnumType != "":
				g.p("raw |= (%s(m.%s) & %#x) << %d", container.GoType, goName(b.Name), mask, b.Offset)
			case b.Width == 1:
				g.p("if m.%s {", goName(b.Name))
				g.p("raw |= 1 << %d", b.Offset)
				g.p("}")
			default:
				g.p("raw |= (%s(m.%s) & %#x) << %d", container.GoType, goName(b.Name), mask, b.Offset)
			}
		}
		g.p("if err := w.%s(raw); err != nil {\nreturn err\n}", container.WriteMethod)
		g.p("}")
	}
}

var condIdentRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
var comparisonRe = regexp.MustCompile(`==|!=|<=|>=|<|>`)

// condition translates a guard expression such as "flags & 0x01" into Go,
// qualifying field references with the receiver and adding "!= 0" when the
// expression has no comparison of its own.
func (g *generator) condition(s *schema.Struct, expr string) string {
	fields := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		fields[f.Name] = true
		for _, b := range f.Bits {
			fields[b.Name] = true
		}
	}

	translated := condIdentRe.ReplaceAllStringFunc(expr, func(ident string) string {
		if fields[ident] {
			return "m." + goName(ident)
		}
		return ident
	})

	if comparisonRe.MatchString(translated) {
		return translated
	}
	return "(" + translated + ") != 0"
}

// enumLiteral renders an enum value as a Go literal that fits the enum's
// underlying type: decimal for signed enums, hex otherwise.
func enumLiteral(e *schema.Enum, v schema.Int) string {
	if strings.HasPrefix(e.Type, "i") {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%#x", v.Uint64())
}

// expectedLiteral renders an expected value as a Go literal that fits the
// field's type: decimal for signed fields, hex otherwise.
func expectedLiteral(f *schema.Field) string {
	if strings.HasPrefix(f.Type, "i") {
		return fmt.Sprintf("%d", int64(*f.Expected))
	}
	return fmt.Sprintf("%#x", f.Expected.Uint64())
}

// goName converts a snake_case protocol identifier to an exported Go name.
func goName(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
