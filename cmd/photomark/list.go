package main

import (
	"flag"
	"fmt"

	"github.com/example/photomark/internal/annotation"
)

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	r = r.subcommand("colors")
	fs := r.subFlagSet("colors")
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
	for idx, entry := range annotation.Palette() {
		marker := " "
		if entry.Color == c.config.Editor.Color {
			marker = "*"
		}
		rgba := entry.Color.ToRGBA()
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", rgba.R, rgba.G, rgba.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-8s %s %s\n", marker, idx+1, entry.Name, entry.Color, block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	r = r.subcommand("widths")
	fs := r.subFlagSet("widths")
	cmd := &widthsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	fmt.Fprintln(c.stdout, "available stroke widths (* marks the default width, eraser strokes are twice as wide):")
	def := annotation.ClampWidth(c.config.Editor.Width)
	for w := annotation.MinWidth; w <= annotation.MaxWidth; w++ {
		marker := " "
		if float64(w) == def {
			marker = "*"
		}
		fmt.Fprintf(c.stdout, "%s %3dpx  eraser %3gpx\n", marker, w, annotation.EraserWidth(float64(w)))
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
