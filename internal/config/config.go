package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/example/photomark/internal/annotation"
	"github.com/example/photomark/internal/theme"
	"github.com/example/photomark/internal/viewport"
)

// ThemeEnv names the environment variable that overrides the configured theme.
const ThemeEnv = "PHOTOMARK_THEME"

// Editor holds the starting values of a new editor.
type Editor struct {
	Color     annotation.Color
	Width     float64
	MaxHeight float64
}

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Editor  Editor
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Empty allows fallback to Env/Default
		Editor: Editor{
			Color:     annotation.DefaultColor(),
			Width:     annotation.DefaultWidth,
			MaxHeight: viewport.DefaultMaxHeight,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// ThemeName picks the theme to use: the flag value, then $PHOTOMARK_THEME,
// then the config file. Empty means the built-in default.
func (c *Config) ThemeName(flag string) string {
	if flag != "" {
		return flag
	}
	if v := strings.TrimSpace(os.Getenv(ThemeEnv)); v != "" {
		return v
	}
	return c.Theme
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Editor.Color.Name())
	fmt.Fprintf(&sb, "width = %s\n", strconv.FormatFloat(c.Editor.Width, 'g', -1, 64))
	fmt.Fprintf(&sb, "max_height = %s\n", strconv.FormatFloat(c.Editor.MaxHeight, 'g', -1, 64))
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
