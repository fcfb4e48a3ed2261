package game

// CollectOutcome is the effect of a collection attempt on the state.
type CollectOutcome int

const (
	// CollectIgnored: unknown item or player, nothing changed.
	CollectIgnored CollectOutcome = iota
	// CollectScored: an egg was collected.
	CollectScored
	// CollectDamaged: a rotten egg cost a life, the player is still alive.
	CollectDamaged
	// CollectEliminated: a rotten egg took the player's last life.
	CollectEliminated
)

func (o CollectOutcome) String() string {
	switch o {
	case CollectScored:
		return "scored"
	case CollectDamaged:
		return "damaged"
	case CollectEliminated:
		return "eliminated"
	default:
		return "ignored"
	}
}

// Collect applies playerID picking up itemID. The item is removed on any
// outcome other than CollectIgnored, so repeating the call is a no-op.
// Lives never go below zero.
func (s *State) Collect(playerID, itemID string) CollectOutcome {
	lives, ok := s.Lives[playerID]
	if !ok {
		return CollectIgnored
	}
	i := s.FindItem(itemID)
	if i < 0 {
		return CollectIgnored
	}
	it := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)

	if it.Type == Egg {
		s.Scores[playerID] += EggPoints
		return CollectScored
	}

	lives = max(lives-1, 0)
	s.Lives[playerID] = lives
	if lives == 0 {
		return CollectEliminated
	}
	return CollectDamaged
}
