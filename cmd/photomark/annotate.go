package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/clipboard"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/imagesource"
	"github.com/example/photomark/internal/ui"
)

// editorFlags are shared by the commands that open an editor.
type editorFlags struct {
	image  string
	id     string
	doc    string
	output string
	color  string
	width  float64
}

func (f *editorFlags) register(fs *flag.FlagSet, r *root) {
	fs.StringVar(&f.image, "image", "", "image source to annotate")
	fs.StringVar(&f.id, "id", "", "image id stored in saved documents (default derived from -image)")
	fs.StringVar(&f.doc, "doc", "", "annotation document to continue editing")
	fs.StringVar(&f.output, "output", "", "where Save writes the document (default <save_dir>/<id>.json)")
	fs.StringVar(&f.color, "color", string(r.config.Editor.Color), "starting palette color")
	fs.Float64Var(&f.width, "width", r.config.Editor.Width, "starting stroke width")
}

// resolve fills in defaults once flags are parsed.
func (f *editorFlags) resolve(r *root) error {
	if f.image == "" {
		return fmt.Errorf("-image is required")
	}
	if f.id == "" {
		f.id = defaultImageID(f.image)
	}
	if f.output == "" {
		f.output = defaultOutput(r.config.SaveDir, f.id)
	}
	return nil
}

// newEditor builds an editor whose Save writes to the output file.
func (f *editorFlags) newEditor(r *root, opts ...editor.Option) (*editor.Editor, error) {
	col, err := annotation.ParseColor(f.color)
	if err != nil {
		return nil, err
	}
	base := []editor.Option{
		editor.WithLogger(r.log),
		editor.WithColor(col),
		editor.WithWidth(f.width),
		editor.WithMaxHeight(r.config.Editor.MaxHeight),
		editor.WithOnSave(func(doc annotation.Document) error {
			if err := writeDocument(f.output, doc); err != nil {
				r.log.Error("save annotations", zap.String("path", f.output), zap.Error(err))
				fmt.Fprintf(r.stderr, "save failed: %v\n", err)
				return err
			}
			r.log.Info("saved annotations", zap.String("path", f.output),
				zap.Int("lines", len(doc.Lines)), zap.Int("shapes", len(doc.Shapes)))
			r.notifier.Save(f.output)
			return nil
		}),
	}
	if f.doc != "" {
		doc, err := readDocument(f.doc)
		if err != nil {
			return nil, err
		}
		base = append(base, editor.WithDocument(doc))
	}
	return editor.New(f.image, f.id, append(base, opts...)...), nil
}

// annotateCmd opens the annotation window.
type annotateCmd struct {
	editorFlags
	winWidth int
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	r = r.subcommand("annotate")
	fs := r.subFlagSet("annotate")
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	a.editorFlags.register(fs, r)
	fs.IntVar(&a.winWidth, "window-width", ui.DefaultWidth, "initial window width in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.image == "" && fs.NArg() == 1 {
		a.image = fs.Arg(0)
	}
	if err := a.editorFlags.resolve(r); err != nil {
		return nil, &UsageError{of: a, reason: err.Error()}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	ed, err := a.newEditor(a.root)
	if err != nil {
		return err
	}
	resolver := imagesource.New(imagesource.WithLogger(a.log))
	win := ui.New(ed, resolver,
		ui.WithLogger(a.log),
		ui.WithTheme(a.activeTheme),
		ui.WithTitle("photomark - "+a.id),
		ui.WithWidth(a.winWidth),
		ui.WithNotifier(a.notifier),
		ui.WithClipboard(clipboard.CopyImage),
	)
	if err := win.Run(); err != nil {
		return fmt.Errorf("annotate %s: %w", a.image, err)
	}
	return nil
}
