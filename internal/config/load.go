package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: GLOWFIELD_FIELD__MAX_DISTANCE -> field.max_distance.
const EnvPrefix = "GLOWFIELD_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return fmt.Errorf("field: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.DocumentPages < 1 {
		return fmt.Errorf("window.document_pages must be at least 1")
	}
	if c.Window.CardColumns <= 0 {
		return fmt.Errorf("window.card_columns must be positive")
	}
	if c.Terminal.CellWidth <= 0 || c.Terminal.CellHeight <= 0 {
		return fmt.Errorf("terminal cell size must be positive")
	}
	if c.Terminal.FPS <= 0 {
		return fmt.Errorf("terminal.fps must be positive")
	}
	if c.Inspect.Enabled && c.Inspect.Addr == "" {
		return fmt.Errorf("inspect.addr is required when inspect is enabled")
	}
	if c.Inspect.QueueSize < 0 {
		return fmt.Errorf("inspect.queue_size must be non-negative")
	}
	return nil
}

// Validate checks the simulation tuning.
func (f *Field) Validate() error {
	if f.Counts.Small < 0 || f.Counts.Medium < 0 || f.Counts.Large < 0 {
		return fmt.Errorf("particle counts must be non-negative")
	}
	if f.Counts.SmallWidth > f.Counts.LargeWidth {
		return fmt.Errorf("counts.small_width %v exceeds counts.large_width %v", f.Counts.SmallWidth, f.Counts.LargeWidth)
	}
	if f.MaxDistance <= 0 {
		return fmt.Errorf("max_distance must be positive")
	}
	if f.MouseRadius <= 0 || f.CardAttractionRadius <= 0 {
		return fmt.Errorf("mouse_radius and card_attraction_radius must be positive")
	}
	if len(f.Colors) == 0 {
		return fmt.Errorf("colors must not be empty")
	}
	if _, err := f.Palette(); err != nil {
		return err
	}
	for cat, hex := range f.HighlightColors {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("highlight_colors.%s: %w", cat, err)
		}
	}
	for name, r := range map[string]Range{"particle_size": f.ParticleSize, "opacity": f.Opacity} {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("%s must satisfy 0 < min <= max, got [%v, %v]", name, r.Min, r.Max)
		}
	}
	if f.Speed.Max < f.Speed.Min {
		return fmt.Errorf("speed.max must not be below speed.min")
	}
	if f.BurstCount < 0 {
		return fmt.Errorf("burst_count must be non-negative")
	}
	if f.HiddenFactor < 0 || f.HiddenFactor > 1 {
		return fmt.Errorf("hidden_factor must be within [0, 1]")
	}
	switch f.LinkMode {
	case LinkNaive, LinkGrid, "":
	default:
		return fmt.Errorf("invalid link_mode %q: must be one of naive, grid", f.LinkMode)
	}
	return nil
}
