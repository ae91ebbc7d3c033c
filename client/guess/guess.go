// Package guess tracks the player's pin for the current round and decides
// which guess actions are allowed.
package guess

import (
	"github.com/cbodonnell/geoquiz/client/identity"
	"github.com/cbodonnell/geoquiz/client/maps"
	"github.com/cbodonnell/geoquiz/client/render"
	"github.com/cbodonnell/geoquiz/client/viewmodel"
	"github.com/cbodonnell/geoquiz/pkg/game/types"
	"github.com/cbodonnell/geoquiz/pkg/log"
)

type State int

const (
	NoGuess State = iota
	PendingLocal
	Confirmed
)

func (s State) String() string {
	switch s {
	case NoGuess:
		return "NoGuess"
	case PendingLocal:
		return "PendingLocal"
	case Confirmed:
		return "Confirmed"
	}
	return "Unknown"
}

const (
	StatusPlaced  = "Pin placed. Ready to submit."
	StatusSending = "Guess submitted."
	StatusCleared = "Pin cleared."

	markerLabel = "Your guess"
)

// Controller owns the local pin. Like the rest of the update loop it is not
// safe for concurrent use.
type Controller struct {
	m         maps.MapAdapter
	state     State
	point     maps.Point
	marker    maps.MarkerHandle
	hasMarker bool
	// submitted is set while a guess for the current pin is in flight.
	submitted bool
	// frozen is set once the round is revealed.
	frozen  bool
	cleared bool
}

func NewController(m maps.MapAdapter) *Controller {
	return &Controller{m: m}
}

func (c *Controller) State() State {
	return c.state
}

// Point returns the pin location, if there is one.
func (c *Controller) Point() (maps.Point, bool) {
	return c.point, c.state != NoGuess
}

func (c *Controller) Submitted() bool {
	return c.submitted
}

func (c *Controller) Frozen() bool {
	return c.frozen
}

// openRound reports whether s is a question still accepting guesses.
func openRound(s *types.Snapshot, self identity.Identity) (*types.QuestionRound, bool) {
	if s == nil || self.IsZero() {
		return nil, false
	}
	round, ok := s.Phase.(*types.QuestionRound)
	if !ok || round.Revealed {
		return nil, false
	}
	return round, true
}

// Place puts the pin at p. It returns false, leaving everything untouched,
// unless s is an unrevealed question and the player has an identity.
func (c *Controller) Place(s *types.Snapshot, self identity.Identity, p maps.Point) bool {
	if _, ok := openRound(s, self); !ok || c.frozen {
		log.Debug("Ignoring map click at %s", p)
		return false
	}
	c.setMarker(p)
	c.state = PendingLocal
	c.submitted = false
	c.cleared = false
	return true
}

// Submit returns the guess to send for the current pin.
func (c *Controller) Submit(s *types.Snapshot, self identity.Identity) (types.Guess, bool) {
	if _, ok := openRound(s, self); !ok || c.frozen || c.state != PendingLocal || c.submitted {
		return types.Guess{}, false
	}
	c.submitted = true
	return types.Guess{Lat: c.point.Lat, Lon: c.point.Lon}, true
}

// AbortSubmit undoes Submit when the guess could not be sent.
func (c *Controller) AbortSubmit() {
	c.submitted = false
}

// Clear removes the pin. It is a no-op once the guess is confirmed or the
// round is revealed.
func (c *Controller) Clear() bool {
	if c.frozen || c.state != PendingLocal {
		return false
	}
	c.removeMarker()
	c.state = NoGuess
	c.submitted = false
	c.cleared = true
	return true
}

// Sync reconciles the controller with the snapshot just applied.
func (c *Controller) Sync(s *types.Snapshot, self identity.Identity) {
	if s == nil {
		return
	}
	round, ok := s.Phase.(*types.QuestionRound)
	if !ok {
		return
	}
	if round.Revealed {
		c.frozen = true
		c.submitted = false
		return
	}
	if self.IsZero() {
		return
	}
	g, ok := round.GuessOf(self.String())
	if !ok {
		return
	}
	confirmed := maps.Point{Lat: g.Lat, Lon: g.Lon}

	switch c.state {
	case NoGuess:
		c.setMarker(confirmed)
		c.confirm()
	case PendingLocal:
		// The server may normalize coordinates, so its copy wins.
		if c.submitted {
			if c.point != confirmed {
				c.setMarker(confirmed)
			}
			c.confirm()
		}
	case Confirmed:
		if c.point != confirmed {
			c.setMarker(confirmed)
		}
	}
}

func (c *Controller) confirm() {
	c.state = Confirmed
	c.submitted = false
	c.cleared = false
}

// Reset discards the round: the pin is removed and all flags cleared.
func (c *Controller) Reset() {
	c.removeMarker()
	c.state = NoGuess
	c.submitted = false
	c.frozen = false
	c.cleared = false
}

// Decorate sets the guess controls and status on a rendered frame.
func (c *Controller) Decorate(f *viewmodel.Frame) {
	if c.frozen || !f.Controls.Placement {
		f.Controls.Placement = false
		f.Controls.Submit = false
		f.Controls.Clear = false
		return
	}

	switch c.state {
	case NoGuess:
		if c.cleared {
			f.Status = StatusCleared
		}
	case PendingLocal:
		f.Controls.Clear = true
		f.Controls.Submit = !c.submitted
		if c.submitted {
			f.Status = StatusSending
		} else {
			f.Status = StatusPlaced
		}
	case Confirmed:
		f.Status = render.StatusSubmitted
	}
}

func (c *Controller) setMarker(p maps.Point) {
	c.point = p
	if c.hasMarker {
		c.m.MoveMarker(c.marker, p)
		return
	}
	c.marker = c.m.PlaceMarker(maps.LayerLocal, p, maps.MarkerOptions{
		Kind:      maps.MarkerLocalGuess,
		Draggable: true,
		Label:     markerLabel,
	})
	c.hasMarker = true
}

func (c *Controller) removeMarker() {
	if !c.hasMarker {
		return
	}
	c.m.RemoveMarker(c.marker)
	c.marker = ""
	c.hasMarker = false
	c.point = maps.Point{}
}
