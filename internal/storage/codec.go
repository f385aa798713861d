package storage

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// codec converts a document to and from bytes.
type codec interface {
	marshal(doc document) ([]byte, error)
	unmarshal(data []byte, doc *document) error
}

type jsonCodec struct{}

func (jsonCodec) marshal(doc document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// unmarshal rejects anything after the document, so a half-overwritten
// file is reported instead of silently truncated.
func (jsonCodec) unmarshal(data []byte, doc *document) error {
	return json.Unmarshal(data, doc)
}

type yamlCodec struct{}

func (yamlCodec) marshal(doc document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) unmarshal(data []byte, doc *document) error {
	return yaml.Unmarshal(data, doc)
}

// codecFor picks YAML for .yaml/.yml paths and JSON otherwise.
func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}
