package game

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// GameRef identifies a game by both of its keys.
type GameRef struct {
	GameID   uint64    `json:"gameId"`
	GameCode string    `json:"gameCode"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
}

// gameIndex remembers every game the manager created, active or finished,
// up to a bounded number of entries. The oldest games are forgotten first.
type gameIndex struct {
	byID   *lru.Cache
	byCode *lru.Cache
}

func newGameIndex(size int) (*gameIndex, error) {
	byID, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize game id index")
	}
	byCode, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize game code index")
	}
	return &gameIndex{byID: byID, byCode: byCode}, nil
}

func (x *gameIndex) register(ref GameRef) error {
	if ref.GameID == 0 {
		return errors.Errorf("Invalid game ID [%d]", ref.GameID)
	}
	if ref.GameCode == "" {
		return errors.New("Game code is empty")
	}
	x.byID.Add(ref.GameID, ref)
	x.byCode.Add(ref.GameCode, ref)
	return nil
}

func (x *gameIndex) forID(gameID uint64) (GameRef, bool) {
	v, ok := x.byID.Get(gameID)
	if !ok {
		return GameRef{}, false
	}
	return v.(GameRef), true
}

func (x *gameIndex) forCode(gameCode string) (GameRef, bool) {
	v, ok := x.byCode.Get(gameCode)
	if !ok {
		return GameRef{}, false
	}
	return v.(GameRef), true
}
