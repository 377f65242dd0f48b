// Package imagesource turns an image reference into a decoded photograph.
//
// A reference is a file path or a URL-like string:
//
//	photo.jpg, file:///tmp/photo.jpg   local files
//	http://..., https://...            remote images
//	data:image/png;base64,...          inline images
//	clipboard:                         the image on the clipboard
//	capture:screen, capture:region     a fresh screenshot
package imagesource

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/photomark/internal/capture"
	"github.com/example/photomark/internal/clipboard"
)

// ErrUnsupportedScheme is returned for references no loader understands.
var ErrUnsupportedScheme = errors.New("unsupported image source")

// DefaultMaxBytes limits how much is read from a file or a remote server.
const DefaultMaxBytes = 64 << 20

// Resolver loads images. The zero value is not usable; call New.
type Resolver struct {
	log      *zap.Logger
	client   *http.Client
	maxBytes int64
	capture  capture.Options

	// Swappable for tests.
	pasteImage func() (image.Image, error)
	screen     func(context.Context, capture.Options) (*image.RGBA, error)
	region     func(context.Context, capture.Options) (*image.RGBA, error)
}

// Option modifies a Resolver during creation.
type Option func(*Resolver)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithHTTPClient sets the client used for http and https references.
func WithHTTPClient(c *http.Client) Option { return func(r *Resolver) { r.client = c } }

// WithMaxBytes caps the encoded size of an image.
func WithMaxBytes(n int64) Option { return func(r *Resolver) { r.maxBytes = n } }

// WithCaptureOptions configures capture: references.
func WithCaptureOptions(o capture.Options) Option { return func(r *Resolver) { r.capture = o } }

// New returns a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		log:        zap.NewNop(),
		client:     http.DefaultClient,
		maxBytes:   DefaultMaxBytes,
		pasteImage: clipboard.PasteImage,
		screen:     capture.Screen,
		region:     capture.Region,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve loads and decodes the image behind source.
func (r *Resolver) Resolve(ctx context.Context, source string) (image.Image, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, fmt.Errorf("image source is empty")
	}
	scheme, rest := splitScheme(src)
	r.log.Debug("resolving image", zap.String("scheme", scheme), zap.String("source", abbreviate(src)))
	switch scheme {
	case "":
		return r.file(src)
	case "file":
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", src, err)
		}
		return r.file(u.Path)
	case "http", "https":
		return r.http(ctx, src)
	case "data":
		return r.data(rest)
	case "clipboard":
		img, err := r.pasteImage()
		if err != nil {
			return nil, fmt.Errorf("clipboard image: %w", err)
		}
		return img, nil
	case "capture":
		switch rest {
		case "", "screen":
			return r.screen(ctx, r.capture)
		case "region":
			return r.region(ctx, r.capture)
		}
		return nil, fmt.Errorf("%w: capture target %q", ErrUnsupportedScheme, rest)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

// splitScheme separates "scheme:rest". Windows drive letters and plain paths
// have no scheme.
func splitScheme(src string) (string, string) {
	i := strings.Index(src, ":")
	if i <= 1 {
		return "", src
	}
	scheme := strings.ToLower(src[:i])
	for _, c := range scheme {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return "", src
		}
	}
	return scheme, src[i+1:]
}

func (r *Resolver) file(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return r.decode(f, path)
}

func (r *Resolver) http(ctx context.Context, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: %s", resp.Status)
	}
	return r.decode(resp.Body, src)
}

// data decodes the payload of an RFC 2397 data URL.
func (r *Resolver) data(rest string) (image.Image, error) {
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data url has no payload")
	}
	var raw []byte
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data url payload: %w", err)
		}
		raw = b
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("data url payload: %w", err)
		}
		raw = []byte(s)
	}
	return r.decode(bytes.NewReader(raw), "data url")
}

// decode sniffs the content type first so non-images fail with a readable
// message instead of "unknown format".
func (r *Resolver) decode(rd io.Reader, name string) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(rd, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes", name, r.maxBytes)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%s is %s, not an image", name, mt.String())
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s (%s): %w", name, mt.String(), err)
	}
	r.log.Debug("decoded image", zap.String("format", format), zap.Stringer("bounds", img.Bounds()))
	return img, nil
}

func abbreviate(s string) string {
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}
