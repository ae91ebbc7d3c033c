// Package ui is a text front end: frames are written to a writer and
// commands are read line by line.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/client/viewmodel"
)

const Usage = "commands: join <name> | click <lat> <lon> | submit | clear | quit"

// ErrQuit is returned by ParseCommand for the quit command.
var ErrQuit = errors.New("quit")

// Console writes frames as plain text.
type Console struct {
	lock sync.Mutex
	out  io.Writer
}

var _ viewmodel.View = &Console{}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Render(f viewmodel.Frame) {
	c.lock.Lock()
	defer c.lock.Unlock()
	io.WriteString(c.out, Format(f))
}

// Format returns the text for one frame.
func Format(f viewmodel.Frame) string {
	var b strings.Builder

	badge := "offline"
	if f.Connected {
		badge = "online"
	}
	name := f.Identity
	if name == "" {
		name = "—"
	}
	round := f.RoundLabel
	if round == "" {
		round = "—"
	}
	fmt.Fprintf(&b, "[%s] %s | %s | %d upcoming\n", badge, name, round, f.Upcoming)

	if f.ShowLogin {
		b.WriteString("enter a name with: join <name>\n")
	}
	if f.ImagePath != "" {
		fmt.Fprintf(&b, "image: %s\n", f.ImagePath)
	}
	if f.Banner.Kind != viewmodel.BannerNone && f.Banner.Text != "" {
		fmt.Fprintf(&b, "(%s) %s\n", f.Banner.Kind, f.Banner.Text)
	}

	if len(f.Roster) > 0 {
		names := make([]string, 0, len(f.Roster))
		for _, row := range f.Roster {
			if row.Self {
				names = append(names, row.Name+" (you)")
			} else {
				names = append(names, row.Name)
			}
		}
		fmt.Fprintf(&b, "players: %s\n", strings.Join(names, ", "))
	}

	if len(f.Leaderboard) > 0 {
		b.WriteString("scores:\n")
		for i, row := range f.Leaderboard {
			you := ""
			if row.Self {
				you = " (you)"
			}
			fmt.Fprintf(&b, "  %d. %s %s%s\n", i+1, row.Name, row.Display, you)
		}
	} else if f.LeaderboardEmpty != "" {
		fmt.Fprintf(&b, "scores: %s\n", f.LeaderboardEmpty)
	}

	if f.Status != "" {
		fmt.Fprintf(&b, "status: %s\n", f.Status)
	}

	var enabled []string
	if f.Controls.Placement {
		enabled = append(enabled, "click")
	}
	if f.Controls.Submit {
		enabled = append(enabled, "submit")
	}
	if f.Controls.Clear {
		enabled = append(enabled, "clear")
	}
	if f.Controls.NameEdit {
		enabled = append(enabled, "join")
	}
	if len(enabled) > 0 {
		fmt.Fprintf(&b, "available: %s\n", strings.Join(enabled, " "))
	}
	b.WriteString("---\n")
	return b.String()
}

// ParseCommand turns a console line into an event. A click is returned as
// events.MapClicked; callers that own a map may route it through the map
// instead.
func ParseCommand(line string) (events.Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ActionableError{Message: Usage}
	}

	switch strings.ToLower(fields[0]) {
	case "join":
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		return events.JoinRequested{Name: name}, nil
	case "click":
		if len(fields) != 3 {
			return nil, &ActionableError{Message: "usage: click <lat> <lon>"}
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, &ActionableError{Message: fmt.Sprintf("invalid latitude %q", fields[1])}
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, &ActionableError{Message: fmt.Sprintf("invalid longitude %q", fields[2])}
		}
		return events.MapClicked{Lat: lat, Lon: lon}, nil
	case "submit":
		return events.SubmitClicked{}, nil
	case "clear":
		return events.ClearClicked{}, nil
	case "quit", "exit":
		return nil, ErrQuit
	}
	return nil, &ActionableError{Message: fmt.Sprintf("unknown command %q; %s", fields[0], Usage)}
}
