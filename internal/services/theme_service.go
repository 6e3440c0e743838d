package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/alimgiray/streakcard/internal/models"
)

var (
	hexColorRegex  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRegex = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[0-9.%+\-]+(?:deg)?(?:\s*[,/\s]\s*[0-9.%+\-]+){2,3}\s*\)$`)
)

// IsValidColor reports whether s is a CSS color this service is willing to place in
// an SVG attribute: hex, a named color, or an rgb()/hsl() function with numeric arguments.
func IsValidColor(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if hexColorRegex.MatchString(s) || funcColorRegex.MatchString(strings.ToLower(s)) {
		return true
	}
	lower := strings.ToLower(s)
	if lower == "transparent" || lower == "currentcolor" {
		return true
	}
	_, ok := colornames.Map[lower]
	return ok
}

// MergeTheme overlays the keys of a JSON theme object onto base. Unknown keys,
// non-string values and invalid colors are ignored; an unparseable raw value
// leaves base untouched.
func MergeTheme(base models.Theme, raw string) models.Theme {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return base
	}

	overrides, ok := parseThemeObject(raw)
	if !ok {
		return base
	}

	merged := base
	fields := merged.Fields()
	for key, value := range overrides {
		target, known := fields[key]
		if !known {
			continue
		}
		color, isString := value.(string)
		if !isString || !IsValidColor(color) {
			continue
		}
		*target = strings.TrimSpace(color)
	}
	return merged
}

func parseThemeObject(raw string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		return obj, true
	}

	// Some clients encode the parameter twice.
	unescaped, err := url.QueryUnescape(raw)
	if err != nil || unescaped == raw {
		return nil, false
	}
	if err := json.Unmarshal([]byte(unescaped), &obj); err == nil && obj != nil {
		return obj, true
	}
	return nil, false
}

// ThemeService resolves request theme parameters against an immutable preset table.
type ThemeService struct {
	presets map[string]models.Theme
}

// NewThemeService creates a theme service over the built-in presets plus extra,
// which override built-ins of the same name.
func NewThemeService(extra map[string]models.Theme) *ThemeService {
	presets := models.PresetThemes()
	for name, theme := range extra {
		presets[strings.ToLower(name)] = theme
	}
	return &ThemeService{presets: presets}
}

// Resolve picks the named preset (default when unknown or empty) and merges the
// partial theme parameter over it.
func (s *ThemeService) Resolve(preset, themeParam string) models.Theme {
	return MergeTheme(s.Preset(preset), themeParam)
}

// Preset returns the named preset or the default theme.
func (s *ThemeService) Preset(name string) models.Theme {
	if theme, ok := s.presets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return theme
	}
	return models.DefaultTheme()
}

// Presets returns a copy of the preset table.
func (s *ThemeService) Presets() map[string]models.Theme {
	out := make(map[string]models.Theme, len(s.presets))
	for name, theme := range s.presets {
		out[name] = theme
	}
	return out
}

// PresetNames returns preset names in alphabetical order.
func (s *ThemeService) PresetNames() []string {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPresetsFile reads additional presets from a YAML file of the form
//
//	midnight:
//	  backgroundColor: "#000000"
//	  accentColor: "#7dd3fc"
//
// Each entry is merged over the default theme with the same validation as request themes.
func LoadPresetsFile(path string) (map[string]models.Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %w", err)
	}

	presets := make(map[string]models.Theme, len(raw))
	for name, colors := range raw {
		encoded, err := json.Marshal(colors)
		if err != nil {
			return nil, fmt.Errorf("failed to encode preset %q: %w", name, err)
		}
		presets[name] = MergeTheme(models.DefaultTheme(), string(encoded))
	}
	return presets, nil
}
