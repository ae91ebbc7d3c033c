package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cbodonnell/geoquiz/client/events"
	"github.com/cbodonnell/geoquiz/client/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Render(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewConsole(buf)

	c.Render(viewmodel.Frame{
		Connected:  true,
		Identity:   "Alice",
		RoundLabel: "Question",
		Upcoming:   2,
		ImagePath:  "q1.jpg",
		Banner:     viewmodel.Banner{Text: "Revealed!", Kind: viewmodel.BannerOK},
		Roster:     []viewmodel.RosterRow{{Name: "Alice", Self: true}, {Name: "Bob"}},
		Leaderboard: []viewmodel.LeaderboardRow{
			{Name: "Alice", Display: "4000.0", Self: true},
			{Name: "Bob", Display: "100.0"},
		},
		Status:   "Round revealed.",
		Controls: viewmodel.Controls{Placement: true, Submit: true},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[online] Alice | Question | 2 upcoming\n"))
	assert.Contains(t, out, "image: q1.jpg\n")
	assert.Contains(t, out, "(ok) Revealed!\n")
	assert.Contains(t, out, "players: Alice (you), Bob\n")
	assert.Contains(t, out, "  1. Alice 4000.0 (you)\n")
	assert.Contains(t, out, "  2. Bob 100.0\n")
	assert.Contains(t, out, "status: Round revealed.\n")
	assert.Contains(t, out, "available: click submit\n")
}

func TestFormat_EmptyFrame(t *testing.T) {
	out := Format(viewmodel.Frame{ShowLogin: true, LeaderboardEmpty: "No scores yet."})
	assert.Contains(t, out, "[offline] — | — | 0 upcoming\n")
	assert.Contains(t, out, "join <name>")
	assert.Contains(t, out, "scores: No scores yet.\n")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    events.Event
		wantErr bool
	}{
		{name: "join", line: "join  Anna Maria ", want: events.JoinRequested{Name: "Anna Maria"}},
		{name: "click", line: "click 10 20.5", want: events.MapClicked{Lat: 10, Lon: 20.5}},
		{name: "submit", line: "submit", want: events.SubmitClicked{}},
		{name: "clear", line: "CLEAR", want: events.ClearClicked{}},
		{name: "click missing lon", line: "click 10", wantErr: true},
		{name: "click bad lat", line: "click north 20", wantErr: true},
		{name: "click out of range", line: "click 91 0", wantErr: true},
		{name: "unknown", line: "dance", wantErr: true},
		{name: "empty", line: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsActionableError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCommand("quit")
	assert.ErrorIs(t, err, ErrQuit)
}
