// Package events defines the tagged inputs consumed by the client update loop.
// Transport and UI goroutines only produce events; all state changes happen
// in the single consumer.
package events

import (
	"fmt"

	"github.com/cbodonnell/geoquiz/pkg/game/types"
)

type Kind int

const (
	KindConnected Kind = iota
	KindDisconnected
	KindSnapshotReceived
	KindMapClicked
	KindSubmitClicked
	KindClearClicked
	KindJoinRequested
)

func (k Kind) String() string {
	switch k {
	case KindConnected:
		return "Connected"
	case KindDisconnected:
		return "Disconnected"
	case KindSnapshotReceived:
		return "SnapshotReceived"
	case KindMapClicked:
		return "MapClicked"
	case KindSubmitClicked:
		return "SubmitClicked"
	case KindClearClicked:
		return "ClearClicked"
	case KindJoinRequested:
		return "JoinRequested"
	}
	return "Unknown"
}

// Event is implemented only by the types in this package.
type Event interface {
	Kind() Kind
}

// Connected is emitted each time the channel (re)connects.
type Connected struct {
	// SessionID identifies this connection attempt in logs.
	SessionID string
}

// Disconnected is emitted when an established connection drops.
type Disconnected struct {
	Err error
}

// SnapshotReceived carries a decoded authoritative state.
type SnapshotReceived struct {
	Snapshot *types.Snapshot
}

// MapClicked is a click on the map at the given location.
type MapClicked struct {
	Lat float64
	Lon float64
}

type SubmitClicked struct{}

type ClearClicked struct{}

// JoinRequested is the player asking to join under Name.
type JoinRequested struct {
	Name string
}

func (Connected) Kind() Kind        { return KindConnected }
func (Disconnected) Kind() Kind     { return KindDisconnected }
func (SnapshotReceived) Kind() Kind { return KindSnapshotReceived }
func (MapClicked) Kind() Kind       { return KindMapClicked }
func (SubmitClicked) Kind() Kind    { return KindSubmitClicked }
func (ClearClicked) Kind() Kind     { return KindClearClicked }
func (JoinRequested) Kind() Kind    { return KindJoinRequested }

func (e Disconnected) String() string {
	if e.Err == nil {
		return "Disconnected"
	}
	return fmt.Sprintf("Disconnected(%v)", e.Err)
}
