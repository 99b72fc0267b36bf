package bound

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"tide/internal/source"
)

// Interchange file suffixes.
const (
	ExtJSON    = ".tree.json"
	ExtMsgpack = ".tree.mp"
)

// IsTreeFile reports whether path carries a bound-tree suffix.
func IsTreeFile(path string) bool {
	return strings.HasSuffix(path, ExtJSON) || strings.HasSuffix(path, ExtMsgpack)
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json tree: %w", err)
	}
	return &doc, nil
}

// ParseMsgpack decodes a MessagePack document. Field names follow the json tags.
func ParseMsgpack(data []byte) (*Document, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode msgpack tree: %w", err)
	}
	return &doc, nil
}

// EncodeMsgpack encodes doc in the MessagePack interchange form.
func EncodeMsgpack(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetOmitEmpty(true)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode msgpack tree: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadFile reads and parses one interchange file. A document without a path gets the
// file name with its tree suffix removed.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc *Document
	if strings.HasSuffix(path, ExtMsgpack) {
		doc, err = ParseMsgpack(data)
	} else {
		doc, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Path == "" {
		base := filepath.Base(path)
		base = strings.TrimSuffix(strings.TrimSuffix(base, ExtJSON), ExtMsgpack)
		doc.Path = base
	}
	return doc, nil
}

// LoadFile reads and decodes one interchange file.
func LoadFile(path string, fileSet *source.FileSet) (*Unit, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(doc, fileSet)
}

// Collect lists interchange files under roots (files or directories), sorted and
// without duplicates.
func Collect(roots []string) ([]string, error) {
	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsTreeFile(p) {
				out = append(out, filepath.Clean(p))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
