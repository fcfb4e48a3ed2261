package game

import "maps"

// State is the mutable simulation state of one match. It is not safe for
// concurrent use; a session goroutine owns it.
type State struct {
	Scores     map[string]int
	Lives      map[string]int
	Items      []*Item
	ChaosMode  bool
	ChaosTimer int
}

// NewState initializes scores to 0 and lives to InitialLives for both players.
func NewState(p1, p2 string) *State {
	return &State{
		Scores: map[string]int{p1: 0, p2: 0},
		Lives:  map[string]int{p1: InitialLives, p2: InitialLives},
		Items:  make([]*Item, 0),
	}
}

// TickResult reports what a Tick changed that observers need to hear about.
type TickResult struct {
	// Spawned is a copy of the new item as it was at spawn time, or nil.
	Spawned *Item
	// ChaosChanges lists chaos transitions in the order they happened.
	ChaosChanges []bool
	// Expired counts items pruned for falling out of the field.
	Expired int
}

// Tick runs one simulation step: spawn, advance, chaos timer.
func (s *State) Tick(r Rand) TickResult {
	var res TickResult

	factor := speedFactor(s.ChaosMode)
	if r.Float64() < SpawnChance*factor {
		it := newItem(r)
		s.Items = append(s.Items, it)
		spawned := *it
		res.Spawned = &spawned
	}

	for _, it := range s.Items {
		it.Y += FallSpeed * factor
	}
	res.Expired = s.pruneExpired()

	s.ChaosTimer++
	if s.ChaosTimer == ChaosStartTick && !s.ChaosMode {
		s.ChaosMode = true
		res.ChaosChanges = append(res.ChaosChanges, true)
	}
	if s.ChaosTimer >= ChaosEndTick {
		s.ChaosMode = false
		s.ChaosTimer = 0
		res.ChaosChanges = append(res.ChaosChanges, false)
	}
	return res
}

func (s *State) pruneExpired() int {
	kept := s.Items[:0]
	for _, it := range s.Items {
		if it.Y <= FieldHeight {
			kept = append(kept, it)
		}
	}
	expired := len(s.Items) - len(kept)
	clear(s.Items[len(kept):])
	s.Items = kept
	return expired
}

// -1 if absent.
func (s *State) FindItem(id string) int {
	for i, it := range s.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// RemoveItem deletes the item with the given id, keeping spawn order.
func (s *State) RemoveItem(id string) bool {
	i := s.FindItem(id)
	if i < 0 {
		return false
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return true
}

// ItemsSnapshot copies the current items so they can leave the owning goroutine.
func (s *State) ItemsSnapshot() []Item {
	out := make([]Item, len(s.Items))
	for i, it := range s.Items {
		out[i] = *it
	}
	return out
}

func (s *State) ScoresSnapshot() map[string]int {
	return maps.Clone(s.Scores)
}

func (s *State) LivesSnapshot() map[string]int {
	return maps.Clone(s.Lives)
}
