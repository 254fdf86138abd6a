package boardgame

// State enumerates every phase a game can be in.
type State string

const (
	StateSetup                State = "setup"
	StatePlaceTile            State = "place-tile"
	StateTilePlaced           State = "tile-placed"
	StateEstablishCorporation State = "establish-corporation"
	StateBuyStocks            State = "buy-stocks"
	StateMerge                State = "merge"
	StateMergeConflict        State = "merge-conflict"
	StateAcquirerSelection    State = "acquirer-selection"
	StateDefunctSelection     State = "defunct-selection"
	StateGameEnd              State = "game-end"
)

// transitions is the fixed valid-transition table from spec.md §4.4.
var transitions = map[State]map[State]bool{
	StateSetup: {
		StatePlaceTile: true,
	},
	StatePlaceTile: {
		StateTilePlaced:           true,
		StateEstablishCorporation: true,
		StateBuyStocks:            true,
		StateMerge:                true,
		StateMergeConflict:        true,
		StateAcquirerSelection:    true,
	},
	StateTilePlaced: {
		StatePlaceTile: true,
		StateGameEnd:   true,
	},
	StateEstablishCorporation: {
		StateBuyStocks: true,
	},
	StateBuyStocks: {
		StateTilePlaced: true,
	},
	StateMerge: {
		StateBuyStocks:         true,
		StateMerge:             true,
		StateAcquirerSelection: true,
		StateDefunctSelection:  true,
	},
	StateMergeConflict: {
		StateMerge: true,
	},
	StateAcquirerSelection: {
		StateMerge:            true,
		StateDefunctSelection: true,
	},
	StateDefunctSelection: {
		StateMerge: true,
	},
	StateGameEnd: {},
}

// Metadata carries the free-standing data a handful of multi-step
// states need, as a single tagged struct rather than a free-form map
// (DESIGN NOTES §9). Only the fields relevant to the current State
// are meaningful.
type Metadata struct {
	// Valid during merge-conflict / acquirer-selection / merge /
	// defunct-selection.
	Acquirer           CorporationID
	AcquirerCandidates []CorporationID
	Defunct            CorporationID
	DefunctsRemaining  []CorporationID
	TriggerPosition    Position
}

// GameStateMachine tracks the current state, the previous state (for
// invariant checking) and the in-flight metadata bag.
type GameStateMachine struct {
	current  State
	previous State
	meta     Metadata
}

// NewGameStateMachine starts in setup.
func NewGameStateMachine() *GameStateMachine {
	return &GameStateMachine{current: StateSetup}
}

// Current returns the active state.
func (sm *GameStateMachine) Current() State {
	return sm.current
}

// Previous returns the state the machine was in before the last
// transition.
func (sm *GameStateMachine) Previous() State {
	return sm.previous
}

// Meta returns the current metadata bag.
func (sm *GameStateMachine) Meta() Metadata {
	return sm.meta
}

// SetMeta replaces the metadata bag without changing state.
func (sm *GameStateMachine) SetMeta(m Metadata) {
	sm.meta = m
}

// CanTransition reports whether to is reachable from the current
// state per the fixed table.
func (sm *GameStateMachine) CanTransition(to State) bool {
	return transitions[sm.current][to]
}

// Transition validates and applies a state change. It returns false
// and changes nothing if the transition is not in the table.
func (sm *GameStateMachine) Transition(to State) bool {
	if !sm.CanTransition(to) {
		return false
	}
	sm.previous = sm.current
	sm.current = to
	return true
}

// Force bypasses validation. Used only for loading a saved game and
// for merge-internal transitions where the ingress state is already
// known-safe (spec.md §4.4).
func (sm *GameStateMachine) Force(to State) {
	sm.previous = sm.current
	sm.current = to
}
