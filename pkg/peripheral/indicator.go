package peripheral

import (
	"errors"
	"log/slog"
)

// Cue is a user-interface signal played on lifecycle changes.
type Cue uint8

const (
	// CueBeepTwice announces fast advertising.
	CueBeepTwice Cue = iota + 1

	// CueBeepLong announces idle.
	CueBeepLong

	// CueBeepThrice acknowledges pairing removal.
	CueBeepThrice
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueBeepTwice:
		return "BEEP_TWICE"
	case CueBeepLong:
		return "BEEP_LONG"
	case CueBeepThrice:
		return "BEEP_THRICE"
	default:
		return "UNKNOWN"
	}
}

// ErrUnknownCue is returned by an Indicator asked to play a cue it has no
// pattern for. The machine treats it as fatal.
var ErrUnknownCue = errors.New("peripheral: unknown cue")

// Indicator plays cues on the device's buzzer or LED.
type Indicator interface {
	Play(c Cue) error
}

// LogIndicator logs cues instead of playing them.
type LogIndicator struct {
	Logger *slog.Logger
}

// Play logs c, rejecting cues outside the known set.
func (i LogIndicator) Play(c Cue) error {
	switch c {
	case CueBeepTwice, CueBeepLong, CueBeepThrice:
	default:
		return ErrUnknownCue
	}
	if i.Logger != nil {
		i.Logger.Info("cue", "cue", c)
	}
	return nil
}

// RecordingIndicator keeps every cue played.
type RecordingIndicator struct {
	Cues []Cue
}

// Play appends c.
func (r *RecordingIndicator) Play(c Cue) error {
	if c < CueBeepTwice || c > CueBeepThrice {
		return ErrUnknownCue
	}
	r.Cues = append(r.Cues, c)
	return nil
}
