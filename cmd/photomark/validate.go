package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/export"
)

// validateCmd checks documents without opening an image.
type validateCmd struct {
	docs  []string
	quiet bool
	*root
	fs *flag.FlagSet
}

func (v *validateCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func parseValidateCmd(args []string, r *root) (*validateCmd, error) {
	r = r.subcommand("validate")
	fs := r.subFlagSet("validate")
	v := &validateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(v)
	doc := fs.String("doc", "", "annotation document to check")
	fs.BoolVar(&v.quiet, "q", false, "print nothing for valid documents")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *doc != "" {
		v.docs = append(v.docs, *doc)
	}
	v.docs = append(v.docs, fs.Args()...)
	if len(v.docs) == 0 {
		return nil, &UsageError{of: v, reason: "no document given"}
	}
	return v, nil
}

// Run reports every document and fails if any is invalid.
func (v *validateCmd) Run() error {
	failed := 0
	for _, path := range v.docs {
		doc, err := readDocument(path)
		if err != nil {
			failed++
			fmt.Fprintf(v.stderr, "invalid: %v\n", err)
			continue
		}
		if !v.quiet {
			fmt.Fprintf(v.stdout, "%s: valid, image %q, %s\n", path, doc.ImageID, describe(export.Summarize(doc)))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents invalid: %w", failed, len(v.docs), annotation.ErrInvalidDocument)
	}
	return nil
}

func describe(s export.Summary) string {
	parts := []string{
		fmt.Sprintf("%d pencil", s.Pencil),
		fmt.Sprintf("%d eraser", s.Eraser),
		fmt.Sprintf("%d arrows", s.Arrows),
		fmt.Sprintf("%d circles", s.Circles),
	}
	if len(s.Colors) > 0 {
		names := make([]string, 0, len(s.Colors))
		for c, n := range s.Colors {
			names = append(names, fmt.Sprintf("%s=%d", c.Name(), n))
		}
		sort.Strings(names)
		parts = append(parts, "colors "+strings.Join(names, " "))
	}
	return strings.Join(parts, ", ")
}
