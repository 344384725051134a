package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/autoflow/pkg/domain"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a persisted document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgPack Format = "msgpack"
)

// FormatFromPath picks a format from a file extension. Unknown extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mpk":
		return FormatMsgPack
	}
	return FormatJSON
}

// Extension returns the canonical file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMsgPack:
		return ".msgpack"
	}
	return ".json"
}

// Marshal encodes a document. JSON output is indented with two spaces and keeps non-ASCII text as is.
func Marshal(doc *Document, f Format) ([]byte, error) {
	if doc.Connections == nil {
		copied := *doc
		copied.Connections = []domain.Connection{}
		doc = &copied
	}

	switch f {
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode workflow: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode workflow: %w", err)
		}
		return data, nil
	case FormatMsgPack:
		data, err := msgpack.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode workflow: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// Unmarshal decodes a document. Any decoding failure wraps domain.ErrMalformedDocument.
func Unmarshal(data []byte, f Format) (*Document, error) {
	var doc Document
	var err error

	switch f {
	case FormatJSON, "":
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatMsgPack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	return &doc, nil
}

// ReadFile loads a document from disk, choosing the format from the extension.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow: %w", err)
	}
	return Unmarshal(data, FormatFromPath(path))
}

// WriteFile saves a document to disk, choosing the format from the extension.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workflow: %w", err)
	}
	return nil
}
