package game

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type MemoryStateTracker struct {
	lock        sync.RWMutex
	activeGames map[string][]byte
}

func NewMemoryStateTracker() *MemoryStateTracker {
	return &MemoryStateTracker{
		activeGames: make(map[string][]byte),
	}
}

func (m *MemoryStateTracker) Load(gameCode string) (*Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	stateBytes, ok := m.activeGames[gameCode]
	if !ok {
		return nil, fmt.Errorf("Game state for game code: %s is not found", gameCode)
	}
	state := Snapshot{}
	err := jsoniter.Unmarshal(stateBytes, &state)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to decode game state for game code: %s", gameCode)
	}
	return &state, nil
}

func (m *MemoryStateTracker) Save(gameCode string, state *Snapshot) error {
	stateBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return errors.Wrapf(err, "Unable to encode game state for game code: %s", gameCode)
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.activeGames[gameCode] = stateBytes
	return nil
}

func (m *MemoryStateTracker) Remove(gameCode string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.activeGames, gameCode)
	return nil
}

// Count returns the number of stored snapshots.
func (m *MemoryStateTracker) Count() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.activeGames)
}
