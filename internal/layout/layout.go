package layout

import "fmt"

// Config is the root of a validated layout document.
type Config struct {
	Settings Settings
	Blocks   []NamedBlock // document order
}

// NamedBlock pairs a block with its top-level key.
type NamedBlock struct {
	Name  string
	Block Block
}

// Block returns the block with the given name.
func (c *Config) Block(name string) (*Block, error) {
	for i := range c.Blocks {
		if c.Blocks[i].Name == name {
			return &c.Blocks[i].Block, nil
		}
	}
	return nil, fmt.Errorf("block not found: %s", name)
}

// BlockNames returns the block names in document order.
func (c *Config) BlockNames() []string {
	names := make([]string, len(c.Blocks))
	for i, b := range c.Blocks {
		names[i] = b.Name
	}
	return names
}

// Endianness selects the byte order used when emitting values.
type Endianness string

const (
	EndianLittle Endianness = "little"
	EndianBig    Endianness = "big"
)

// CrcArea selects which bytes the block checksum covers.
type CrcArea string

const (
	CrcAreaData  CrcArea = "data"
	CrcAreaBlock CrcArea = "block"
)

// Settings holds the document-wide build parameters.
type Settings struct {
	Endianness    Endianness
	VirtualOffset uint32 // subtracted from addresses during emission, default 0
	ByteSwap      bool
	PadToEnd      bool
	Crc           CrcParams
}

// CrcParams captures the checksum parameters. Computing the checksum itself
// is the builder's job; this layer only validates the parameter types.
type CrcParams struct {
	Polynomial uint64
	Start      uint64
	XorOut     uint64
	RefIn      bool
	RefOut     bool
	Area       CrcArea // defaults to CrcAreaData
}

// Header describes a block's placement in the image. Address ranges and
// overlaps between blocks are checked by the builder, not here.
type Header struct {
	StartAddress uint32
	Length       uint32
	CrcLocation  CrcLocation
	Padding      byte // fill byte, defaults to 0xFF
}

// CrcLocation is where the block checksum is written: a symbolic keyword or
// an explicit address. Keyword legality is deferred to the builder.
type CrcLocation struct {
	Symbolic bool
	Keyword  string // set when Symbolic
	Address  uint32 // set when !Symbolic
}

// Block is a named region of the image: a header plus a data tree.
type Block struct {
	Header Header
	Data   Entry
}

// Entry is one node of a block's data tree: either a leaf or a named group
// of further entries. A document node is a leaf iff it carries a 'type' key.
type Entry struct {
	Leaf     *LeafEntry
	Children []NamedEntry // group entries, document order
}

// NamedEntry pairs a child entry with its field name.
type NamedEntry struct {
	Name  string
	Entry Entry
}

// IsLeaf reports whether the entry is a leaf.
func (e *Entry) IsLeaf() bool {
	return e.Leaf != nil
}

// Child returns the named child of a group entry.
func (e *Entry) Child(name string) (*Entry, bool) {
	for i := range e.Children {
		if e.Children[i].Name == name {
			return &e.Children[i].Entry, true
		}
	}
	return nil, false
}

// LeafEntry describes one scalar (or fixed-size array of scalars) to be
// written into a block.
type LeafEntry struct {
	Type       ScalarType
	Size       *SizeSource // nil for an unsized scalar leaf
	StrictSize bool        // true when the document used 'SIZE' instead of 'size'
	Source     EntrySource
}

// Alignment returns the natural alignment of the leaf in bytes.
func (l *LeafEntry) Alignment() int {
	return l.Type.SizeBytes()
}

// ScalarType is the wire type of a leaf entry.
type ScalarType string

const (
	TypeU8  ScalarType = "u8"
	TypeU16 ScalarType = "u16"
	TypeU32 ScalarType = "u32"
	TypeU64 ScalarType = "u64"
	TypeI8  ScalarType = "i8"
	TypeI16 ScalarType = "i16"
	TypeI32 ScalarType = "i32"
	TypeI64 ScalarType = "i64"
	TypeF32 ScalarType = "f32"
	TypeF64 ScalarType = "f64"
)

// scalarTypes lists the valid tokens in the order used for error messages.
var scalarTypes = []ScalarType{
	TypeU8, TypeU16, TypeU32, TypeU64,
	TypeI8, TypeI16, TypeI32, TypeI64,
	TypeF32, TypeF64,
}

// ParseScalarType resolves a 'type' token against the scalar enumeration.
func ParseScalarType(s string) (ScalarType, bool) {
	for _, t := range scalarTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// SizeBytes returns the width of the scalar type in bytes.
func (t ScalarType) SizeBytes() int {
	switch t {
	case TypeU8, TypeI8:
		return 1
	case TypeU16, TypeI16:
		return 2
	case TypeU32, TypeI32, TypeF32:
		return 4
	case TypeU64, TypeI64, TypeF64:
		return 8
	}
	return 0
}

// SizeSource is a one- or two-dimensional element count.
type SizeSource struct {
	Rows uint64
	Cols uint64 // meaningful only when TwoD
	TwoD bool
}

// Elements returns the total element count.
func (s SizeSource) Elements() uint64 {
	if s.TwoD {
		return s.Rows * s.Cols
	}
	return s.Rows
}

// EntrySource is where a leaf's payload comes from: a named reference to be
// resolved against an external symbol table, or a literal value. Exactly one
// arm is set.
type EntrySource struct {
	Name  string
	Value *Value
}

// IsNamed reports whether the source is a named reference.
func (s EntrySource) IsNamed() bool {
	return s.Value == nil
}

// DataKind identifies the scalar kind of a literal.
type DataKind int

const (
	DataUint DataKind = iota
	DataInt
	DataFloat
	DataString
)

// DataValue is a single scalar literal. Non-negative integers resolve to
// DataUint, negative ones to DataInt; kind-consistency with the declared
// scalar type is left to the builder.
type DataValue struct {
	Kind  DataKind
	Uint  uint64
	Int   int64
	Float float64
	Str   string
}

// Value is a literal payload: a single scalar or a non-empty array of them.
type Value struct {
	scalars []DataValue
	array   bool
}

// NewScalarValue wraps a single scalar literal.
func NewScalarValue(v DataValue) *Value {
	return &Value{scalars: []DataValue{v}}
}

// NewArrayValue wraps an ordered list of scalar literals.
func NewArrayValue(vs []DataValue) *Value {
	return &Value{scalars: vs, array: true}
}

// IsArray reports whether the payload is an array.
func (v *Value) IsArray() bool {
	return v.array
}

// Single returns the payload as one scalar.
func (v *Value) Single() (DataValue, error) {
	if v.array {
		return DataValue{}, fmt.Errorf("value holds an array, not a single scalar")
	}
	if len(v.scalars) == 0 {
		return DataValue{}, fmt.Errorf("value holds no scalar")
	}
	return v.scalars[0], nil
}

// Array returns the payload as a slice; a single scalar becomes a
// one-element slice.
func (v *Value) Array() []DataValue {
	return v.scalars
}
