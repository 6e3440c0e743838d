package models

// Theme holds the six colors a card is painted with.
type Theme struct {
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	TextColor       string `json:"textColor" yaml:"textColor"`
	AccentColor     string `json:"accentColor" yaml:"accentColor"`
	BorderColor     string `json:"borderColor" yaml:"borderColor"`
	WaterColor      string `json:"waterColor" yaml:"waterColor"`
	StreakColor     string `json:"streakColor" yaml:"streakColor"`
}

const DefaultPreset = "dark"

// DefaultTheme returns the dark theme every partial theme is merged over.
func DefaultTheme() Theme {
	return Theme{
		BackgroundColor: "#1a1b27",
		TextColor:       "#ffffff",
		AccentColor:     "#00d4aa",
		BorderColor:     "#30363d",
		WaterColor:      "#00d4aa",
		StreakColor:     "#ff6b6b",
	}
}

// PresetThemes returns a fresh copy of the built-in presets keyed by name.
func PresetThemes() map[string]Theme {
	return map[string]Theme{
		DefaultPreset: DefaultTheme(),
		"ocean": {
			BackgroundColor: "#0f172a",
			TextColor:       "#e2e8f0",
			AccentColor:     "#0ea5e9",
			BorderColor:     "#1e293b",
			WaterColor:      "#0ea5e9",
			StreakColor:     "#06b6d4",
		},
		"sunset": {
			BackgroundColor: "#451a03",
			TextColor:       "#fef3c7",
			AccentColor:     "#f59e0b",
			BorderColor:     "#92400e",
			WaterColor:      "#f59e0b",
			StreakColor:     "#dc2626",
		},
		"forest": {
			BackgroundColor: "#14532d",
			TextColor:       "#dcfce7",
			AccentColor:     "#22c55e",
			BorderColor:     "#166534",
			WaterColor:      "#22c55e",
			StreakColor:     "#15803d",
		},
		"purple": {
			BackgroundColor: "#581c87",
			TextColor:       "#f3e8ff",
			AccentColor:     "#a855f7",
			BorderColor:     "#7c3aed",
			WaterColor:      "#a855f7",
			StreakColor:     "#c084fc",
		},
	}
}

// Fields exposes the theme as key/pointer pairs using the JSON key names.
func (t *Theme) Fields() map[string]*string {
	return map[string]*string{
		"backgroundColor": &t.BackgroundColor,
		"textColor":       &t.TextColor,
		"accentColor":     &t.AccentColor,
		"borderColor":     &t.BorderColor,
		"waterColor":      &t.WaterColor,
		"streakColor":     &t.StreakColor,
	}
}
