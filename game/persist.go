package game

// PersistGameState stores engine snapshots keyed by game code. The game
// saves a checkpoint after every accepted operation.
type PersistGameState interface {
	Load(gameCode string) (*Snapshot, error)
	Save(gameCode string, state *Snapshot) error
	Remove(gameCode string) error
}
