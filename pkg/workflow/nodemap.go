package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Lookup returns the spec stored under id.
func (m NodeMap) Lookup(id string) (NodeSpec, bool) {
	for _, e := range m {
		if e.ID == id {
			return e.Spec, true
		}
	}
	return NodeSpec{}, false
}

func (s NodeSpec) wire() NodeSpec {
	if s.Params == nil {
		s.Params = map[string]any{}
	} else {
		s.Params = wrapFloats(s.Params).(map[string]any)
	}
	return s
}

// MarshalJSON writes the nodes as a JSON object in document order.
func (m NodeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(e.ID)
		if err != nil {
			return nil, err
		}
		val, err := marshalJSON(e.Spec.wire())
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", e.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads a JSON object keeping the key order.
func (m *NodeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("nodes: expected object, got %v", tok)
	}

	out := NodeMap{}
	seen := map[string]struct{}{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("nodes: expected string key, got %v", tok)
		}
		var spec NodeSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		if err := out.add(seen, id, spec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// MarshalYAML emits the nodes as a mapping in document order.
func (m NodeMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		var val yaml.Node
		if err := val.Encode(e.Spec.wire()); err != nil {
			return nil, fmt.Errorf("node %s: %w", e.ID, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.ID},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keeping the key order.
func (m *NodeMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*m = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("nodes: expected mapping at line %d", value.Line)
	}

	out := NodeMap{}
	seen := map[string]struct{}{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		id := value.Content[i].Value
		var spec NodeSpec
		if err := value.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		if err := out.add(seen, id, spec); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

// EncodeMsgpack writes the nodes as a msgpack map in document order.
func (m NodeMap) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, e := range m {
		if err := enc.EncodeString(e.ID); err != nil {
			return err
		}
		spec := e.Spec
		if spec.Params == nil {
			spec.Params = map[string]any{}
		}
		if err := enc.Encode(spec); err != nil {
			return fmt.Errorf("node %s: %w", e.ID, err)
		}
	}
	return nil
}

// DecodeMsgpack reads a msgpack map keeping the key order.
func (m *NodeMap) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*m = nil
		return nil
	}

	out := make(NodeMap, 0, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id, err := dec.DecodeString()
		if err != nil {
			return err
		}
		var spec NodeSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		if err := out.add(seen, id, spec); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

func (m *NodeMap) add(seen map[string]struct{}, id string, spec NodeSpec) error {
	if _, dup := seen[id]; dup {
		return fmt.Errorf("duplicate node id %q", id)
	}
	seen[id] = struct{}{}
	spec.Params = normalizeParams(spec.Params)
	*m = append(*m, NodeEntry{ID: id, Spec: spec})
	return nil
}
