// Package viewmodel describes everything the front end shows, as plain data.
package viewmodel

import "slices"

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerInfo
	BannerWarn
	BannerOK
)

func (k BannerKind) String() string {
	switch k {
	case BannerNone:
		return "none"
	case BannerInfo:
		return "info"
	case BannerWarn:
		return "warn"
	case BannerOK:
		return "ok"
	}
	return "unknown"
}

type Banner struct {
	Text string
	Kind BannerKind
}

type RosterRow struct {
	Name string
	Self bool
}

type LeaderboardRow struct {
	Name    string
	Score   float64
	Display string
	Self    bool
}

// Controls reports which inputs are enabled.
type Controls struct {
	Placement bool
	Submit    bool
	Clear     bool
	NameEdit  bool
}

// Frame is one complete picture of the interface.
type Frame struct {
	Connected  bool
	Identity   string
	ShowLogin  bool
	RoundLabel string
	Upcoming   int
	ImagePath  string
	Banner     Banner
	Status     string
	Roster     []RosterRow
	// LeaderboardEmpty is shown in place of the leaderboard when it has no rows.
	LeaderboardEmpty string
	Leaderboard      []LeaderboardRow
	Controls         Controls
	// Submitted is set when the server already holds a guess from this
	// player for the current round.
	Submitted bool
}

// Equal reports whether f and other would display identically.
func (f Frame) Equal(other Frame) bool {
	return f.Connected == other.Connected &&
		f.Identity == other.Identity &&
		f.ShowLogin == other.ShowLogin &&
		f.RoundLabel == other.RoundLabel &&
		f.Upcoming == other.Upcoming &&
		f.ImagePath == other.ImagePath &&
		f.Banner == other.Banner &&
		f.Status == other.Status &&
		slices.Equal(f.Roster, other.Roster) &&
		f.LeaderboardEmpty == other.LeaderboardEmpty &&
		slices.Equal(f.Leaderboard, other.Leaderboard) &&
		f.Controls == other.Controls &&
		f.Submitted == other.Submitted
}

// View displays frames.
type View interface {
	Render(f Frame)
}
