package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/example/photomark/internal/clipboard"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/imagesource"
	"github.com/example/photomark/internal/render"
)

// Swappable for tests.
var copyImageFn = clipboard.CopyImage

// renderCmd flattens a document onto its photograph.
type renderCmd struct {
	image       string
	doc         string
	output      string
	pdf         string
	title       string
	toClipboard bool
	shadow      bool
	*root
	fs *flag.FlagSet

	resolver editor.Resolver
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	r = r.subcommand("render")
	fs := r.subFlagSet("render")
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.image, "image", "", "image source the document annotates")
	fs.StringVar(&c.doc, "doc", "", "annotation document (JSON or YAML)")
	fs.StringVar(&c.output, "output", "", "PNG file to write")
	fs.StringVar(&c.pdf, "pdf", "", "PDF report to write")
	fs.StringVar(&c.title, "title", "", "PDF title (default the document image id)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.BoolVar(&c.shadow, "shadow", false, "give the annotations a drop shadow")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case c.image == "":
		return nil, &UsageError{of: c, reason: "-image is required"}
	case c.doc == "":
		return nil, &UsageError{of: c, reason: "-doc is required"}
	case c.output == "" && c.pdf == "" && !c.toClipboard:
		return nil, &UsageError{of: c, reason: "nothing to do: give -output, -pdf or -to-clipboard"}
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	doc, err := readDocument(c.doc)
	if err != nil {
		return err
	}
	if c.resolver == nil {
		c.resolver = imagesource.New(imagesource.WithLogger(c.log))
	}
	photo, err := c.resolver.Resolve(context.Background(), c.image)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.image, err)
	}

	var opts render.FlattenOptions
	if c.shadow {
		shadow := render.DefaultShadowOptions()
		opts.Shadow = &shadow
	}
	flat := render.Document(photo, doc, opts)
	c.log.Debug("flattened document", zap.Stringer("bounds", flat.Bounds()),
		zap.Int("lines", len(doc.Lines)), zap.Int("shapes", len(doc.Shapes)))

	if c.output != "" {
		if err := writePNG(c.output, flat); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "wrote %s\n", c.output)
		c.notifier.Export(c.output, flat)
	}
	if c.pdf != "" {
		title := c.title
		if title == "" {
			title = doc.ImageID
		}
		if err := export.WritePDFFile(c.pdf, flat, doc, export.Options{Title: title, Created: time.Now()}); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Fprintf(c.stdout, "wrote %s\n", c.pdf)
		c.notifier.Export(c.pdf, flat)
	}
	if c.toClipboard {
		if err := copyImageFn(flat); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(c.stdout, "copied image to clipboard")
		c.notifier.Copy("annotated image")
	}
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
