// Package render turns a snapshot into a frame and the map overlays that go
// with it.
package render

import (
	"fmt"
	"sort"

	"github.com/cbodonnell/geoquiz/client/identity"
	"github.com/cbodonnell/geoquiz/client/maps"
	"github.com/cbodonnell/geoquiz/client/viewmodel"
	"github.com/cbodonnell/geoquiz/pkg/game/types"
)

// Order is the leaderboard sort order.
type Order string

const (
	// OrderPoints puts the highest score first.
	OrderPoints Order = "points"
	// OrderDistance puts the lowest score first.
	OrderDistance Order = "distance"
)

const (
	DefaultRevealZoom = 6

	BannerLobby    = "Waiting for host to start the first question."
	BannerRevealed = "Revealed! Actual location is shown on the map."
	BannerEnd      = "Game over. Final scores shown on the right."

	StatusLobby     = "In lobby."
	StatusPlace     = "Click the map to place a pin."
	StatusSubmitted = "Guess submitted. Waiting for reveal…"
	StatusRevealed  = "Round revealed."
	StatusEnd       = "Finished."

	NoScoresYet = "No scores yet."
	NoScores    = "—"
)

type Options struct {
	Map        maps.MapAdapter
	Order      Order
	RevealZoom int
}

// Renderer draws snapshots. It keeps no state between calls, so rendering
// the same snapshot twice gives the same frame and map.
type Renderer struct {
	m          maps.MapAdapter
	order      Order
	revealZoom int
}

func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		m:          opts.Map,
		order:      opts.Order,
		revealZoom: opts.RevealZoom,
	}
	if r.order != OrderDistance {
		r.order = OrderPoints
	}
	if r.revealZoom <= 0 {
		r.revealZoom = DefaultRevealZoom
	}
	return r
}

// Render draws s for the player self and returns the phase part of the frame.
// Connection and guess state are layered on by the caller.
func (r *Renderer) Render(s *types.Snapshot, self identity.Identity) viewmodel.Frame {
	v := &phaseVisitor{
		r:    r,
		self: self.String(),
		frame: viewmodel.Frame{
			Upcoming: s.UpcomingQuestions,
		},
	}
	s.Phase.Accept(v)
	return v.frame
}

type phaseVisitor struct {
	r     *Renderer
	self  string
	frame viewmodel.Frame
}

var _ types.PhaseVisitor = &phaseVisitor{}

func (v *phaseVisitor) VisitLobby(p *types.Lobby) {
	v.r.m.ClearLayer(maps.LayerReveal)

	v.frame.RoundLabel = "Lobby"
	v.frame.Roster = v.roster(p.Joined)
	v.frame.LeaderboardEmpty = NoScoresYet
	v.frame.Banner = viewmodel.Banner{Text: BannerLobby, Kind: viewmodel.BannerWarn}
	v.frame.Status = StatusLobby
}

func (v *phaseVisitor) VisitQuestion(p *types.QuestionRound) {
	v.r.m.ClearLayer(maps.LayerReveal)

	v.frame.RoundLabel = "Question"
	v.frame.ImagePath = p.Question.ImagePath
	v.frame.Roster = v.roster(p.Scores.Names())
	v.setLeaderboard(p.Scores)

	if !p.Revealed {
		v.frame.Status = StatusPlace
		v.frame.Controls.Placement = v.self != ""
		if _, ok := p.GuessOf(v.self); ok && v.self != "" {
			v.frame.Submitted = true
			v.frame.Status = StatusSubmitted
		}
		return
	}

	v.frame.Banner = viewmodel.Banner{Text: BannerRevealed, Kind: viewmodel.BannerOK}
	v.frame.Status = StatusRevealed
	v.drawReveal(p)
}

func (v *phaseVisitor) VisitEnd(p *types.End) {
	v.r.m.ClearLayer(maps.LayerReveal)

	v.frame.RoundLabel = "Final"
	v.setLeaderboard(p.Scores)
	v.frame.Banner = viewmodel.Banner{Text: BannerEnd, Kind: viewmodel.BannerOK}
	v.frame.Status = StatusEnd
}

func (v *phaseVisitor) drawReveal(p *types.QuestionRound) {
	m := v.r.m
	var points []maps.Point

	answer, hasAnswer := p.Question.Answer()
	actual := maps.Point{Lat: answer.Lat, Lon: answer.Lon}
	if hasAnswer {
		m.PlaceMarker(maps.LayerReveal, actual, maps.MarkerOptions{
			Kind:  maps.MarkerAnswer,
			Label: fmt.Sprintf("Actual location %s", actual),
		})
		points = append(points, actual)
	}

	for _, name := range p.GuessNames() {
		g := p.Guesses[name]
		at := maps.Point{Lat: g.Lat, Lon: g.Lon}
		m.PlaceMarker(maps.LayerReveal, at, maps.MarkerOptions{
			Kind:  maps.MarkerGuess,
			Label: fmt.Sprintf("%s %s", name, at),
		})
		if hasAnswer {
			m.DrawLine(maps.LayerReveal, at, actual, fmt.Sprintf("%s → actual", name))
		}
		points = append(points, at)
	}

	switch {
	case len(points) > 1:
		m.FitView(points)
	case len(points) == 1:
		m.SetView(points[0], v.r.revealZoom)
	}
}

func (v *phaseVisitor) roster(names []string) []viewmodel.RosterRow {
	if len(names) == 0 {
		return nil
	}
	rows := make([]viewmodel.RosterRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, viewmodel.RosterRow{Name: name, Self: name == v.self})
	}
	return rows
}

func (v *phaseVisitor) setLeaderboard(scores types.Scores) {
	v.frame.Leaderboard = Leaderboard(scores, v.r.order, v.self)
	if len(v.frame.Leaderboard) == 0 {
		v.frame.LeaderboardEmpty = NoScores
	}
}

// Leaderboard returns the rows for scores in the given order with ties
// broken by name.
func Leaderboard(scores types.Scores, order Order, self string) []viewmodel.LeaderboardRow {
	if len(scores) == 0 {
		return nil
	}
	rows := make([]viewmodel.LeaderboardRow, 0, len(scores))
	for name, score := range scores {
		rows = append(rows, viewmodel.LeaderboardRow{
			Name:    name,
			Score:   score,
			Display: fmt.Sprintf("%.1f", score),
			Self:    self != "" && name == self,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Score != b.Score {
			if order == OrderDistance {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		return a.Name < b.Name
	})
	return rows
}
