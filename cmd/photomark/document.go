package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/example/photomark/internal/annotation"
)

const maxDerivedID = 64

// readDocument decodes and validates the document in file. The format
// follows the file extension.
func readDocument(file string) (annotation.Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return annotation.Document{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	doc, err := annotation.Decode(f, annotation.FormatFromPath(file))
	if err != nil {
		return annotation.Document{}, fmt.Errorf("%s: %w", file, err)
	}
	if err := doc.Validate(); err != nil {
		return annotation.Document{}, fmt.Errorf("%s: %w", file, err)
	}
	return doc, nil
}

// writeDocument replaces file with doc.
func writeDocument(file string, doc annotation.Document) error {
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create document directory: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(file), ".photomark-*")
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := annotation.Encode(tmp, doc, annotation.FormatFromPath(file)); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

// defaultOutput names the document written for imageID when no -output is
// given.
func defaultOutput(saveDir, imageID string) string {
	name := imageID + ".json"
	if saveDir == "" {
		return name
	}
	return filepath.Join(saveDir, name)
}

// defaultImageID derives an id from the image source when none is given.
func defaultImageID(source string) string {
	base := path.Base(filepath.ToSlash(strings.TrimSpace(source)))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	id = strings.Trim(id, "-")
	if id == "" || len(id) > maxDerivedID {
		return "image"
	}
	return id
}
