package layout

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. The emitted document is canonical:
// blocks and fields keep their validated order and defaulted fields are
// written out explicitly, so re-validating the output yields an equal Config.
func (c *Config) MarshalYAML() (any, error) {
	return c.yamlNode(), nil
}

// CanonicalYAML returns the canonical serialization of the config.
func (c *Config) CanonicalYAML() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.WriteYAML(&buf, 2); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteYAML writes the canonical serialization with the given indent width.
func (c *Config) WriteYAML(w io.Writer, indent int) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) yamlNode() *yaml.Node {
	root := mappingNode()
	addKey(root, "settings", c.Settings.yamlNode())
	for _, b := range c.Blocks {
		addKey(root, b.Name, b.Block.yamlNode())
	}
	return root
}

func (s Settings) yamlNode() *yaml.Node {
	n := mappingNode()
	addKey(n, "endianness", strNode(string(s.Endianness)))
	addKey(n, "virtual_offset", uintNode(uint64(s.VirtualOffset)))
	addKey(n, "byte_swap", boolNode(s.ByteSwap))
	addKey(n, "pad_to_end", boolNode(s.PadToEnd))
	addKey(n, "crc", s.Crc.yamlNode())
	return n
}

func (p CrcParams) yamlNode() *yaml.Node {
	n := mappingNode()
	addKey(n, "polynomial", uintNode(p.Polynomial))
	addKey(n, "start", uintNode(p.Start))
	addKey(n, "xor_out", uintNode(p.XorOut))
	addKey(n, "ref_in", boolNode(p.RefIn))
	addKey(n, "ref_out", boolNode(p.RefOut))
	addKey(n, "area", strNode(string(p.Area)))
	return n
}

func (b Block) yamlNode() *yaml.Node {
	n := mappingNode()
	addKey(n, "header", b.Header.yamlNode())
	addKey(n, "data", b.Data.yamlNode())
	return n
}

func (h Header) yamlNode() *yaml.Node {
	n := mappingNode()
	addKey(n, "start_address", uintNode(uint64(h.StartAddress)))
	addKey(n, "length", uintNode(uint64(h.Length)))
	if h.CrcLocation.Symbolic {
		addKey(n, "crc_location", strNode(h.CrcLocation.Keyword))
	} else {
		addKey(n, "crc_location", uintNode(uint64(h.CrcLocation.Address)))
	}
	addKey(n, "padding", uintNode(uint64(h.Padding)))
	return n
}

func (e Entry) yamlNode() *yaml.Node {
	if e.IsLeaf() {
		return e.Leaf.yamlNode()
	}
	n := mappingNode()
	for _, child := range e.Children {
		addKey(n, child.Name, child.Entry.yamlNode())
	}
	return n
}

func (l *LeafEntry) yamlNode() *yaml.Node {
	n := mappingNode()
	addKey(n, "type", strNode(string(l.Type)))
	if l.Size != nil {
		key := "size"
		if l.StrictSize {
			key = "SIZE"
		}
		addKey(n, key, l.Size.yamlNode())
	}
	if l.Source.IsNamed() {
		addKey(n, "name", strNode(l.Source.Name))
	} else {
		addKey(n, "value", l.Source.Value.yamlNode())
	}
	return n
}

func (s *SizeSource) yamlNode() *yaml.Node {
	if !s.TwoD {
		return uintNode(s.Rows)
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	seq.Content = append(seq.Content, uintNode(s.Rows), uintNode(s.Cols))
	return seq
}

func (v *Value) yamlNode() *yaml.Node {
	if !v.IsArray() {
		return v.scalars[0].yamlNode()
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, dv := range v.scalars {
		seq.Content = append(seq.Content, dv.yamlNode())
	}
	return seq
}

func (d DataValue) yamlNode() *yaml.Node {
	switch d.Kind {
	case DataUint:
		return uintNode(d.Uint)
	case DataInt:
		return scalarNode("!!int", strconv.FormatInt(d.Int, 10))
	case DataFloat:
		return scalarNode("!!float", floatString(d.Float))
	}
	return strNode(d.Str)
}

// floatString formats a float so it re-parses as a float: whole values keep
// a trailing ".0" and non-finite values use YAML spellings.
func floatString(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func addKey(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func strNode(s string) *yaml.Node {
	return scalarNode("!!str", s)
}

func uintNode(u uint64) *yaml.Node {
	return scalarNode("!!int", strconv.FormatUint(u, 10))
}

func boolNode(b bool) *yaml.Node {
	return scalarNode("!!bool", strconv.FormatBool(b))
}
