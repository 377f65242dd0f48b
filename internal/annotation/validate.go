package annotation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDocument is returned by Validate for documents the editor
// could not have produced.
var ErrInvalidDocument = errors.New("invalid annotation document")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("palette", func(fl validator.FieldLevel) bool {
			return Color(fl.Field().String()).InPalette()
		})
		_ = v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
			return fl.Field().Len()%2 == 0
		})
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
		v.RegisterStructValidation(strokeRules, Stroke{})
		v.RegisterStructValidation(shapeRules, Shape{})
		validate = v
	})
	return validate
}

func strokeRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(Stroke)
	if s.Blend != BlendFor(s.Kind) {
		sl.ReportError(s.Blend, "Blend", "blendMode", "blend_matches_kind", string(s.Kind))
	}
	if s.Kind == KindPencil && s.StrokeWidth > MaxWidth {
		sl.ReportError(s.StrokeWidth, "StrokeWidth", "strokeWidth", "lte", fmt.Sprint(MaxWidth))
	}
}

func shapeRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(Shape)
	switch s.Type {
	case ShapeArrow:
		if len(s.Points) != 4 {
			sl.ReportError(s.Points, "Points", "points", "arrow_vector", "")
		}
	case ShapeCircle:
		if s.Radius <= 0 {
			sl.ReportError(s.Radius, "Radius", "radius", "gt", "0")
		}
	}
}

// Validate checks the document against the editor's invariants: palette
// colours, widths, stroke blend modes, shape geometry and unique ids.
func (d Document) Validate() error {
	if err := documentValidator().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	seen := make(map[string]struct{}, len(d.Lines)+len(d.Shapes))
	check := func(id string) error {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDocument, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, l := range d.Lines {
		if err := check(l.ID); err != nil {
			return err
		}
	}
	for _, s := range d.Shapes {
		if err := check(s.ID); err != nil {
			return err
		}
	}
	return nil
}
