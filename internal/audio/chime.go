// Package audio plays the short chime that accompanies an attractor burst.
// Sound is optional; every failure here is reported and otherwise ignored by
// the hosts.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	game_log "github.com/iburimskiy/glowfield/internal/log"
)

// ErrUnsupportedSound is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedSound = errors.New("unsupported sound file")

// Extensions lists the file patterns Load accepts.
var Extensions = []string{"*.wav", "*.mp3", "*.flac"}

// Chime is a fully decoded sound kept in memory so it can be replayed.
type Chime struct {
	Path   string
	buf    *beep.Buffer
	format beep.Format
}

// Load decodes path into memory.
func Load(path string) (*Chime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chime: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSound, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode chime %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode chime %s: %w", path, err)
	}
	return &Chime{Path: path, buf: buf, format: format}, nil
}

// Len is the chime length in samples.
func (c *Chime) Len() int { return c.buf.Len() }

// Duration is the chime length in time.
func (c *Chime) Duration() time.Duration {
	return c.format.SampleRate.D(c.buf.Len())
}

func (c *Chime) Format() beep.Format { return c.format }

func (c *Chime) streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// Player owns the speaker. The zero value is not usable; use NewPlayer.
type Player struct {
	log      *game_log.Logger
	chime    *Chime
	rate     beep.SampleRate
	initDone bool
	tap      *tap
	// init is swapped out in tests that have no sound device.
	init func(beep.SampleRate, int) error
}

func NewPlayer(logger *game_log.Logger) *Player {
	if logger == nil {
		logger = game_log.Discard()
	}
	return &Player{log: logger, init: speaker.Init}
}

// SetChime switches to c, reinitialising the speaker when the sample rate
// changes. A nil chime silences the player.
func (p *Player) SetChime(c *Chime) error {
	if c == nil {
		p.stop()
		p.chime = nil
		return nil
	}
	rate := c.format.SampleRate
	bufferSize := rate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := p.init(rate, bufferSize); err != nil {
			return fmt.Errorf("speaker init: %w", err)
		}
		p.initDone = true
	case rate != p.rate:
		p.stop()
		if err := p.init(rate, bufferSize); err != nil {
			return fmt.Errorf("speaker init: %w", err)
		}
	}
	p.rate = rate
	p.chime = c
	p.log.Infof("audio: chime %s (%v)", c.Path, c.Duration().Round(time.Millisecond))
	return nil
}

// Chime returns the current chime, nil when silent.
func (p *Player) Chime() *Chime { return p.chime }

// Play starts the chime unless there is none or the previous one is still
// sounding.
func (p *Player) Play() bool {
	if p.chime == nil || !p.initDone {
		return false
	}
	if p.tap != nil && p.tap.Active() {
		return false
	}
	p.tap = newTap(p.chime.streamer())
	speaker.Play(p.tap)
	return true
}

func (p *Player) stop() {
	if !p.initDone {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	p.tap = nil
}

// Close silences the speaker.
func (p *Player) Close() {
	p.stop()
}
