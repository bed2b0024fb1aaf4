package document

import "math"

// Kind identifies the shape of a decoded value.
type Kind int

const (
	KindMapping Kind = iota
	KindSequence
	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindNull
)

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindString:
		return "string"
	case KindInt, KindUint:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	}
	return "unknown"
}

// Node is one value in a decoded document tree.
//
// Mappings keep the key order of the source document. Line is the 1-based
// source line when the format provides positions, 0 otherwise.
type Node struct {
	Kind Kind
	Line int

	Str   string
	Int   int64   // KindInt
	Uint  uint64  // KindUint, for values above math.MaxInt64
	Float float64
	Bool  bool

	Items  []*Node // KindSequence elements
	Fields []Field // KindMapping entries, document order
}

// Field is a single mapping entry.
type Field struct {
	Key   string
	Value *Node
}

// Get returns the value for key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether a mapping node contains key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// AsUint64 returns the node's value as an unsigned integer.
func (n *Node) AsUint64() (uint64, bool) {
	switch n.Kind {
	case KindInt:
		if n.Int < 0 {
			return 0, false
		}
		return uint64(n.Int), true
	case KindUint:
		return n.Uint, true
	}
	return 0, false
}

// AsInt64 returns the node's value as a signed integer.
func (n *Node) AsInt64() (int64, bool) {
	switch n.Kind {
	case KindInt:
		return n.Int, true
	case KindUint:
		if n.Uint > math.MaxInt64 {
			return 0, false
		}
		return int64(n.Uint), true
	}
	return 0, false
}

// IsInteger reports whether the node holds an integer of either sign.
func (n *Node) IsInteger() bool {
	return n.Kind == KindInt || n.Kind == KindUint
}
