package bramble

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"
)

// AudioProvider plays and stops sounds by id. Both calls are fire-and-forget.
type AudioProvider interface {
	PlaySound(id string)
	StopSound(id string)
}

// SoundBank is an AudioProvider backed by ebiten audio players.
type SoundBank struct {
	ctx     *audio.Context
	players map[string]*audio.Player
	volume  map[string]float64
	log     *zap.Logger
}

// NewSoundBank creates a bank on ctx. A nil logger discards warnings.
func NewSoundBank(ctx *audio.Context, log *zap.Logger) *SoundBank {
	if log == nil {
		log = zap.NewNop()
	}
	return &SoundBank{
		ctx:     ctx,
		players: make(map[string]*audio.Player),
		volume:  make(map[string]float64),
		log:     log,
	}
}

// LoadWAV decodes WAV data and registers it under id at the given volume.
func (b *SoundBank) LoadWAV(id string, data []byte, volume float64) error {
	if b.ctx == nil {
		return fmt.Errorf("bramble: load sound %s: no audio context", id)
	}
	stream, err := wav.DecodeWithSampleRate(b.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("bramble: decode sound %s: %w", id, err)
	}
	p, err := b.ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("bramble: load sound %s: %w", id, err)
	}
	b.players[id] = p
	b.volume[id] = volume
	return nil
}

// Has reports whether id is loaded.
func (b *SoundBank) Has(id string) bool {
	_, ok := b.players[id]
	return ok
}

// PlaySound rewinds and plays id. Unknown ids are logged and ignored.
func (b *SoundBank) PlaySound(id string) {
	p, ok := b.players[id]
	if !ok {
		b.log.Warn("sound not found", zap.String("id", id))
		return
	}
	p.SetVolume(b.volume[id])
	if err := p.Rewind(); err != nil {
		b.log.Warn("sound rewind failed", zap.String("id", id), zap.Error(err))
	}
	p.Play()
}

// StopSound pauses id if it is playing.
func (b *SoundBank) StopSound(id string) {
	p, ok := b.players[id]
	if !ok || !p.IsPlaying() {
		return
	}
	p.Pause()
}
