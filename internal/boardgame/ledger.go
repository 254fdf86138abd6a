package boardgame

import "sort"

// Ledger holds the mutable state of all seven chains.
type Ledger struct {
	corps map[CorporationID]*Corporation
}

// NewLedger returns a ledger with all seven chains inactive.
func NewLedger() *Ledger {
	l := &Ledger{corps: make(map[CorporationID]*Corporation, len(AllCorporations))}
	for _, id := range AllCorporations {
		l.corps[id] = NewCorporation(id)
	}
	return l
}

// Get returns the corporation by ID. Callers must only pass IDs from
// AllCorporations; the "incorporated" sentinel is never stored here.
func (l *Ledger) Get(id CorporationID) *Corporation {
	return l.corps[id]
}

// Active returns every currently active corporation, sorted by ID for
// deterministic iteration.
func (l *Ledger) Active() []*Corporation {
	out := make([]*Corporation, 0, len(AllCorporations))
	for _, id := range AllCorporations {
		if c := l.corps[id]; c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Inactive returns every currently inactive corporation.
func (l *Ledger) Inactive() []*Corporation {
	out := make([]*Corporation, 0, len(AllCorporations))
	for _, id := range AllCorporations {
		if c := l.corps[id]; !c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllActiveSafe reports whether every active corporation is safe. A
// ledger with no active corporations is not "every active safe" in the
// sense the end-game condition needs, so it returns false then.
func (l *Ledger) AllActiveSafe() bool {
	any := false
	for _, c := range l.Active() {
		any = true
		if !c.Safe {
			return false
		}
	}
	return any
}

// AnyActiveSizeAtLeast reports whether any active corporation has reached at
// least size n.
func (l *Ledger) AnyActiveSizeAtLeast(n int) bool {
	for _, c := range l.Active() {
		if c.Size >= n {
			return true
		}
	}
	return false
}
