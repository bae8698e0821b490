package config

import "time"

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// Viewport breakpoints
	SmallBreakpoint = 768
	LargeBreakpoint = 1200

	// Particle counts per breakpoint
	SmallCount  = 50
	MediumCount = 100
	LargeCount  = 150

	// Simulation parameters
	MaxDistance          = 180
	MouseRadius          = 300
	MouseForce           = 0.8
	CardAttractionRadius = 200
	CardAttractionForce  = 1.2
	ConnectionOpacity    = 0.25
	WaveAmplitude        = 2
	WaveFrequency        = 0.02
	BurstCount           = 15
	HiddenFactor         = 0.3

	PointerIdle       = 100 * time.Millisecond
	ReconcileInterval = time.Second

	DefaultColor = "#00FFFF"
)

// Range is a closed numeric interval used for randomized attributes.
type Range struct {
	Min float64 `koanf:"min" yaml:"min"`
	Max float64 `koanf:"max" yaml:"max"`
}

// Counts maps viewport widths to target particle counts.
type Counts struct {
	SmallWidth float64 `koanf:"small_width" yaml:"small_width"`
	LargeWidth float64 `koanf:"large_width" yaml:"large_width"`
	Small      int     `koanf:"small" yaml:"small"`
	Medium     int     `koanf:"medium" yaml:"medium"`
	Large      int     `koanf:"large" yaml:"large"`
}

// For returns the target count for a viewport width.
func (c Counts) For(width float64) int {
	switch {
	case width < c.SmallWidth:
		return c.Small
	case width < c.LargeWidth:
		return c.Medium
	default:
		return c.Large
	}
}

// Compact holds the radii applied once at start on small viewports.
type Compact struct {
	Enabled              bool    `koanf:"enabled" yaml:"enabled"`
	MaxDistance          float64 `koanf:"max_distance" yaml:"max_distance"`
	MouseRadius          float64 `koanf:"mouse_radius" yaml:"mouse_radius"`
	CardAttractionRadius float64 `koanf:"card_attraction_radius" yaml:"card_attraction_radius"`
}

// Field is the simulation tuning. It is swapped wholesale, never patched
// onto live particles.
type Field struct {
	Counts               Counts            `koanf:"counts" yaml:"counts"`
	MaxDistance          float64           `koanf:"max_distance" yaml:"max_distance"`
	MouseRadius          float64           `koanf:"mouse_radius" yaml:"mouse_radius"`
	MouseForce           float64           `koanf:"mouse_force" yaml:"mouse_force"`
	CardAttractionRadius float64           `koanf:"card_attraction_radius" yaml:"card_attraction_radius"`
	CardAttractionForce  float64           `koanf:"card_attraction_force" yaml:"card_attraction_force"`
	Colors               []string          `koanf:"colors" yaml:"colors"`
	HighlightColors      map[string]string `koanf:"highlight_colors" yaml:"highlight_colors"`
	ParticleSize         Range             `koanf:"particle_size" yaml:"particle_size"`
	Speed                Range             `koanf:"speed" yaml:"speed"`
	Opacity              Range             `koanf:"opacity" yaml:"opacity"`
	ConnectionOpacity    float64           `koanf:"connection_opacity" yaml:"connection_opacity"`
	WaveAmplitude        float64           `koanf:"wave_amplitude" yaml:"wave_amplitude"`
	WaveFrequency        float64           `koanf:"wave_frequency" yaml:"wave_frequency"`
	BurstCount           int               `koanf:"burst_count" yaml:"burst_count"`
	HiddenFactor         float64           `koanf:"hidden_factor" yaml:"hidden_factor"`
	PointerIdle          time.Duration     `koanf:"pointer_idle" yaml:"pointer_idle"`
	ReconcileInterval    time.Duration     `koanf:"reconcile_interval" yaml:"reconcile_interval"`
	LinkMode             LinkMode          `koanf:"link_mode" yaml:"link_mode"`
	Compact              Compact           `koanf:"compact" yaml:"compact"`
}

// LinkMode selects the connection builder.
type LinkMode string

const (
	LinkNaive LinkMode = "naive"
	LinkGrid  LinkMode = "grid"
)

// Window configures the desktop host.
type Window struct {
	Width         int     `koanf:"width" yaml:"width"`
	Height        int     `koanf:"height" yaml:"height"`
	Title         string  `koanf:"title" yaml:"title"`
	DocumentPages float64 `koanf:"document_pages" yaml:"document_pages"`
	CardColumns   int     `koanf:"card_columns" yaml:"card_columns"`
	CardHeight    float64 `koanf:"card_height" yaml:"card_height"`
	CardGap       float64 `koanf:"card_gap" yaml:"card_gap"`
	ScrollSpeed   float64 `koanf:"scroll_speed" yaml:"scroll_speed"`
	PauseOnBlur   bool    `koanf:"pause_on_blur" yaml:"pause_on_blur"`
}

// Terminal configures the tcell host.
type Terminal struct {
	CellWidth  float64 `koanf:"cell_width" yaml:"cell_width"`
	CellHeight float64 `koanf:"cell_height" yaml:"cell_height"`
	FPS        int     `koanf:"fps" yaml:"fps"`
}

// Inspect configures the HTTP inspection API.
type Inspect struct {
	Enabled       bool          `koanf:"enabled" yaml:"enabled"`
	Addr          string        `koanf:"addr" yaml:"addr"`
	AllowAll      bool          `koanf:"allow_all" yaml:"allow_all"`
	StatsInterval time.Duration `koanf:"stats_interval" yaml:"stats_interval"`
	QueueSize     int           `koanf:"queue_size" yaml:"queue_size"`
}

// Audio configures the burst chime.
type Audio struct {
	ChimePath string `koanf:"chime_path" yaml:"chime_path"`
}

// Config is the full application configuration.
type Config struct {
	LogLevel string   `koanf:"log_level" yaml:"log_level"`
	Seed     uint64   `koanf:"seed" yaml:"seed"`
	Field    Field    `koanf:"field" yaml:"field"`
	Window   Window   `koanf:"window" yaml:"window"`
	Terminal Terminal `koanf:"terminal" yaml:"terminal"`
	Inspect  Inspect  `koanf:"inspect" yaml:"inspect"`
	Audio    Audio    `koanf:"audio" yaml:"audio"`
}
