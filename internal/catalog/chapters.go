package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/taxon/internal/taxonomy"
)

// Manifest is the on-disk chapter list.
//
//	chapters:
//	  - slug: databases
//	    title: Databases
//
// A bare top-level sequence of chapters is accepted as well.
type Manifest struct {
	Chapters []taxonomy.Item `yaml:"chapters"`
}

// LoadChapters reads a chapter manifest from path.
func LoadChapters(path string) ([]taxonomy.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading chapters: %v", err)}
	}
	items, err := ParseChapters(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ParseChapters decodes a chapter manifest, preserving document order.
// Only the shape is checked; blank or duplicate slugs are left to
// taxonomy.Classify, which rejects them.
func ParseChapters(data []byte) ([]taxonomy.Item, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []taxonomy.Item{}, nil
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing chapters: %v", err)}
	}
	if len(doc.Content) == 0 {
		return []taxonomy.Item{}, nil
	}

	root := doc.Content[0]
	var items []taxonomy.Item
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&items); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing chapters: %v", err)}
		}
	case yaml.MappingNode:
		var m Manifest
		if err := root.Decode(&m); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing chapters: %v", err)}
		}
		items = m.Chapters
	default:
		return nil, &LoadError{
			Code:    ErrCodeParseFailed,
			Message: fmt.Sprintf("line %d: chapters must be a list or a mapping with a chapters key", root.Line),
		}
	}

	if items == nil {
		items = []taxonomy.Item{}
	}
	return items, nil
}
