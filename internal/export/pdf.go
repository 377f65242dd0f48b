// Package export writes annotated photographs as single-page PDF reports.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/photomark/internal/annotation"
)

// Summary counts the marks of a document.
type Summary struct {
	Pencil  int
	Eraser  int
	Arrows  int
	Circles int
	// Colors counts pencil strokes and shapes per palette colour.
	Colors map[annotation.Color]int
}

// Summarize tallies doc.
func Summarize(doc annotation.Document) Summary {
	s := Summary{Colors: map[annotation.Color]int{}}
	for _, l := range doc.Lines {
		if l.Kind == annotation.KindEraser {
			s.Eraser++
			continue
		}
		s.Pencil++
		s.Colors[l.Color]++
	}
	for _, sh := range doc.Shapes {
		switch sh.Type {
		case annotation.ShapeArrow:
			s.Arrows++
		case annotation.ShapeCircle:
			s.Circles++
		}
		s.Colors[sh.Color]++
	}
	return s
}

// Options tunes the report.
type Options struct {
	Title string
	// Created is printed in the header. Zero means now.
	Created time.Time
}

const (
	margin     = 12.0
	lineHeight = 6.0
)

// PDF writes a report showing the flattened photograph followed by a
// summary of doc.
func PDF(w io.Writer, flat image.Image, doc annotation.Document, opts Options) error {
	b := flat.Bounds()
	if b.Empty() {
		return fmt.Errorf("export pdf: image is empty")
	}
	orientation := "P"
	if b.Dx() > b.Dy() {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(true, margin)
	p.AddPage()

	title := opts.Title
	if title == "" {
		title = "Damage annotations"
	}
	created := opts.Created
	if created.IsZero() {
		created = time.Now()
	}
	p.SetFont("Helvetica", "B", 14)
	p.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.SetTextColor(90, 90, 90)
	p.CellFormat(0, lineHeight, fmt.Sprintf("Image %s    %s", doc.ImageID, created.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return fmt.Errorf("export pdf: encode image: %w", err)
	}
	info := p.RegisterImageOptionsReader("photo", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if p.Err() {
		return fmt.Errorf("export pdf: %w", p.Error())
	}

	pageW, pageH := p.GetPageSize()
	availW := pageW - 2*margin
	// Leave room for the summary under the photograph.
	availH := pageH - p.GetY() - margin - 8*lineHeight
	iw, ih := info.Extent()
	scale := availW / iw
	if ih*scale > availH {
		scale = availH / ih
	}
	x := margin + (availW-iw*scale)/2
	y := p.GetY() + 2
	p.ImageOptions("photo", x, y, iw*scale, ih*scale, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	p.SetY(y + ih*scale + 4)

	writeSummary(p, Summarize(doc))

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// WritePDFFile is PDF into a new file at path.
func WritePDFFile(path string, flat image.Image, doc annotation.Document, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := PDF(f, flat, doc, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func writeSummary(p *gofpdf.Fpdf, s Summary) {
	p.SetFont("Helvetica", "B", 11)
	p.CellFormat(0, lineHeight+1, "Summary", "B", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	rows := [][2]string{
		{"Pencil strokes", fmt.Sprint(s.Pencil)},
		{"Eraser strokes", fmt.Sprint(s.Eraser)},
		{"Arrows", fmt.Sprint(s.Arrows)},
		{"Circles", fmt.Sprint(s.Circles)},
	}
	for _, r := range rows {
		p.CellFormat(50, lineHeight, r[0], "", 0, "L", false, 0, "")
		p.CellFormat(20, lineHeight, r[1], "", 1, "R", false, 0, "")
	}
	for _, pc := range annotation.Palette() {
		n := s.Colors[pc.Color]
		if n == 0 {
			continue
		}
		c := pc.Color.ToRGBA()
		p.SetFillColor(int(c.R), int(c.G), int(c.B))
		p.SetDrawColor(120, 120, 120)
		p.Rect(p.GetX(), p.GetY()+1, 4, 4, "FD")
		p.SetX(p.GetX() + 6)
		p.CellFormat(44, lineHeight, pc.Name, "", 0, "L", false, 0, "")
		p.CellFormat(20, lineHeight, fmt.Sprint(n), "", 1, "R", false, 0, "")
	}
}
