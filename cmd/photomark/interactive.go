package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/clipboard"
	"github.com/example/photomark/internal/editor"
	"github.com/example/photomark/internal/imagesource"
	"github.com/example/photomark/internal/viewport"
)

// Swappable for tests.
var copyTextFn = clipboard.CopyText

// commandList collects repeated -e flags.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives an editor with text commands.
type interactiveCmd struct {
	editorFlags
	container float64
	height    float64
	execs     commandList
	*root
	fs *flag.FlagSet

	ed       *editor.Editor
	resolver editor.Resolver
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	r = r.subcommand("interactive")
	fs := r.subFlagSet("interactive")
	i := &interactiveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(i)
	i.editorFlags.register(fs, r)
	fs.Float64Var(&i.container, "container", 800, "container width in pixels")
	fs.Float64Var(&i.height, "container-height", 0, "container height in pixels (0 is unbounded)")
	fs.Var(&i.execs, "e", "execute a command instead of reading stdin (may be repeated)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := i.editorFlags.resolve(r); err != nil {
		return nil, &UsageError{of: i, reason: err.Error()}
	}
	if i.container <= 0 {
		return nil, &UsageError{of: i, reason: "-container must be positive"}
	}
	return i, nil
}

// open creates the editor and loads the image.
func (i *interactiveCmd) open() error {
	ed, err := i.newEditor(i.root, editor.WithContainer(viewport.Size{W: i.container, H: i.height}))
	if err != nil {
		return err
	}
	i.ed = ed
	if i.resolver == nil {
		i.resolver = imagesource.New(imagesource.WithLogger(i.log))
	}
	if err := ed.Load(context.Background(), i.resolver); err != nil {
		return fmt.Errorf("load %s: %w", i.image, err)
	}
	l := ed.Layout()
	fmt.Fprintf(i.stdout, "loaded %s (%s) surface %gx%g scale %g\n", i.image, ed.Natural(), l.Width, l.Height, l.Scale)
	return nil
}

func (i *interactiveCmd) Run() error {
	if err := i.open(); err != nil {
		return err
	}
	defer i.ed.Close()

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. done is true once the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false, nil
	}
	ed := i.ed
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(i.stdout, (&UsageError{of: i}).Error())
	case "tool":
		if err := wantArgs(name, rest, 1); err != nil {
			return false, err
		}
		t, err := editor.ParseTool(rest[0])
		if err != nil {
			return false, err
		}
		ed.SetTool(t)
		if t.Stamp() {
			if id, ok := ed.Selected(); ok {
				fmt.Fprintf(i.stdout, "inserted %s %s\n", t, id)
			}
		}
	case "color":
		if err := wantArgs(name, rest, 1); err != nil {
			return false, err
		}
		c, err := annotation.ParseColor(rest[0])
		if err != nil {
			return false, err
		}
		ed.SetColor(c)
	case "width":
		v, err := floatArgs(name, rest, 1)
		if err != nil {
			return false, err
		}
		ed.SetWidth(v[0])
	case "down", "move":
		v, err := floatArgs(name, rest, 2)
		if err != nil {
			return false, err
		}
		phase := editor.PhaseDown
		if name == "move" {
			phase = editor.PhaseMove
		}
		ed.HandlePointer(editor.At(phase, v[0], v[1]))
	case "up":
		ed.HandlePointer(editor.PointerEvent{Phase: editor.PhaseUp})
	case "cancel":
		ed.HandlePointer(editor.PointerEvent{Phase: editor.PhaseCancel})
	case "select":
		if err := wantArgs(name, rest, 1); err != nil {
			return false, err
		}
		if !ed.Select(rest[0]) {
			return false, fmt.Errorf("no item %q", rest[0])
		}
	case "deselect":
		ed.Deselect()
	case "delete":
		if !ed.DeleteSelected() {
			return false, fmt.Errorf("nothing selected")
		}
	case "drag":
		if len(rest) != 3 {
			return false, fmt.Errorf("drag requires ID DX DY")
		}
		v, err := floatArgs(name, rest[1:], 2)
		if err != nil {
			return false, err
		}
		if !ed.Drag(rest[0], v[0], v[1]) {
			return false, fmt.Errorf("cannot drag %q", rest[0])
		}
	case "transform":
		if len(rest) < 2 {
			return false, fmt.Errorf("transform requires ID and at least one key=value")
		}
		attrs, err := parseAttrs(rest[1:])
		if err != nil {
			return false, err
		}
		if !ed.Transform(rest[0], attrs) {
			return false, fmt.Errorf("transform of %q rejected", rest[0])
		}
	case "undo":
		if !ed.Undo() {
			return false, fmt.Errorf("nothing to undo")
		}
	case "clear":
		ed.Clear()
	case "resize":
		if len(rest) == 1 {
			rest = append(rest, "0")
		}
		v, err := floatArgs(name, rest, 2)
		if err != nil {
			return false, err
		}
		ed.Resize(viewport.Size{W: v[0], H: v[1]})
		l := ed.Layout()
		fmt.Fprintf(i.stdout, "surface %gx%g scale %g\n", l.Width, l.Height, l.Scale)
	case "save":
		ok, err := ed.Save()
		if !ok {
			return false, fmt.Errorf("nothing to save")
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "saved %s\n", i.output)
	case "copy":
		doc, ok := ed.Export()
		if !ok {
			return false, fmt.Errorf("nothing to copy")
		}
		var buf bytes.Buffer
		if err := annotation.Encode(&buf, doc, annotation.FormatJSON); err != nil {
			return false, err
		}
		if err := copyTextFn(buf.String()); err != nil {
			return false, fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(i.stdout, "copied document to clipboard")
		i.notifier.Copy("annotation document")
	case "list":
		i.printItems()
	case "status":
		i.printStatus()
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func (i *interactiveCmd) printStatus() {
	ed := i.ed
	sel, _ := ed.Selected()
	if sel == "" {
		sel = "-"
	}
	fmt.Fprintf(i.stdout, "state=%s tool=%s color=%s width=%g lines=%d shapes=%d history=%d selected=%s\n",
		ed.State(), ed.Tool(), ed.Color().Name(), ed.Width(),
		len(ed.Lines()), len(ed.Shapes()), len(ed.History()), sel)
}

func (i *interactiveCmd) printItems() {
	w := i.stdout
	for _, l := range i.ed.Lines() {
		fmt.Fprintf(w, "line  %s %s %s width=%g points=%d\n", l.ID, l.Kind, l.Color.Name(), l.StrokeWidth, l.PointCount())
	}
	for _, s := range i.ed.Shapes() {
		fmt.Fprintf(w, "shape %s %s %s x=%g y=%g rotation=%g scale=%gx%g\n",
			s.ID, s.Type, s.Color.Name(), s.X, s.Y, s.Rotation, s.ScaleX, s.ScaleY)
	}
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func floatArgs(name string, args []string, n int) ([]float64, error) {
	if err := wantArgs(name, args, n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for k, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: invalid number %q", name, a)
		}
		out[k] = v
	}
	return out, nil
}

var attrKeys = map[string]func(*editor.Attrs, float64){
	"x":        func(a *editor.Attrs, v float64) { a.X = editor.Float(v) },
	"y":        func(a *editor.Attrs, v float64) { a.Y = editor.Float(v) },
	"rotation": func(a *editor.Attrs, v float64) { a.Rotation = editor.Float(v) },
	"scalex":   func(a *editor.Attrs, v float64) { a.ScaleX = editor.Float(v) },
	"scaley":   func(a *editor.Attrs, v float64) { a.ScaleY = editor.Float(v) },
}

func parseAttrs(pairs []string) (editor.Attrs, error) {
	var attrs editor.Attrs
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		set, known := attrKeys[strings.ToLower(k)]
		if !ok || !known {
			keys := make([]string, 0, len(attrKeys))
			for key := range attrKeys {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			return attrs, fmt.Errorf("invalid attribute %q, want one of %s", p, strings.Join(keys, ", "))
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return attrs, fmt.Errorf("invalid value in %q", p)
		}
		set(&attrs, f)
	}
	return attrs, nil
}
