package game

// Player is a member of the live roster.
type Player struct {
	ID    string
	Name  string
	Score int
}

func (p Player) PlayerID() string { return p.ID }
func (p Player) PlayerScore() int { return p.Score }

func (p Player) snapshot() Snapshot {
	return Snapshot{ID: p.ID, Name: p.Name, Score: p.Score}
}

// Snapshot is a player's frozen result inside a HistoryEntry.
type Snapshot struct {
	ID    string
	Name  string
	Score int
}

func (s Snapshot) PlayerID() string { return s.ID }
func (s Snapshot) PlayerScore() int { return s.Score }
