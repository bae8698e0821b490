package config

// DefaultPalette is the particle colour set.
var DefaultPalette = []string{
	"#00FFFF", // cyan
	"#8B00FF", // purple
	"#32CD32", // lime
	"#0080FF", // electric blue
	"#FFD700", // gold
	"#FF4444", // red
	"#FF1493", // deep pink
	"#00FF41", // matrix green
}

// DefaultHighlights maps card categories to their highlight colour.
// Categories missing here fall back to DefaultColor for bursts and links
// and never tint particles.
var DefaultHighlights = map[string]string{
	"service":     "#00FFFF",
	"portfolio":   "#8B00FF",
	"skill":       "#32CD32",
	"testimonial": "#FFD700",
	"contact":     "#FF1493",
}

// DefaultField returns the stock simulation tuning.
func DefaultField() Field {
	highlights := make(map[string]string, len(DefaultHighlights))
	for k, v := range DefaultHighlights {
		highlights[k] = v
	}
	return Field{
		Counts: Counts{
			SmallWidth: SmallBreakpoint,
			LargeWidth: LargeBreakpoint,
			Small:      SmallCount,
			Medium:     MediumCount,
			Large:      LargeCount,
		},
		MaxDistance:          MaxDistance,
		MouseRadius:          MouseRadius,
		MouseForce:           MouseForce,
		CardAttractionRadius: CardAttractionRadius,
		CardAttractionForce:  CardAttractionForce,
		Colors:               append([]string(nil), DefaultPalette...),
		HighlightColors:      highlights,
		ParticleSize:         Range{Min: 1, Max: 4},
		Speed:                Range{Min: 0.3, Max: 1.2},
		Opacity:              Range{Min: 0.4, Max: 0.9},
		ConnectionOpacity:    ConnectionOpacity,
		WaveAmplitude:        WaveAmplitude,
		WaveFrequency:        WaveFrequency,
		BurstCount:           BurstCount,
		HiddenFactor:         HiddenFactor,
		PointerIdle:          PointerIdle,
		ReconcileInterval:    ReconcileInterval,
		LinkMode:             LinkNaive,
		Compact: Compact{
			Enabled:              true,
			MaxDistance:          120,
			MouseRadius:          150,
			CardAttractionRadius: 120,
		},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Field:    DefaultField(),
		Window: Window{
			Width:         WindowWidth,
			Height:        WindowHeight,
			Title:         "glowfield - hover cards, wheel to scroll, S: chime, Esc/Q: quit",
			DocumentPages: 3,
			CardColumns:   3,
			CardHeight:    140,
			CardGap:       48,
			ScrollSpeed:   40,
			PauseOnBlur:   true,
		},
		Terminal: Terminal{
			CellWidth:  8,
			CellHeight: 16,
			FPS:        30,
		},
		Inspect: Inspect{
			Enabled:       false,
			Addr:          "127.0.0.1:7077",
			StatsInterval: ReconcileInterval,
			QueueSize:     64,
		},
	}
}
