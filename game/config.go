package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type GameConfig struct {
	Title string `yaml:"title"`
	// StrictStart requires all four seats to be filled before the first roll.
	// When false, a game may start with fewer players and empty seats are
	// always skipped.
	StrictStart bool `yaml:"strict-start"`
	// Seed for the dice. Zero picks a random seed per game.
	Seed int64 `yaml:"seed"`
	// FinishedGamesCacheSize bounds the number of finished games the manager
	// keeps for inspection.
	FinishedGamesCacheSize int `yaml:"finished-games-cache-size"`
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		Title:                  "Hub Dice",
		StrictStart:            true,
		FinishedGamesCacheSize: 1000,
	}
}

// ParseGameConfig reads a YAML config file. Keys missing from the file keep
// their default values.
func ParseGameConfig(configFile string) (GameConfig, error) {
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return GameConfig{}, errors.Wrap(err, fmt.Sprintf("Error reading game config file [%s]", configFile))
	}

	data := DefaultGameConfig()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return GameConfig{}, errors.Wrap(err, fmt.Sprintf("Error parsing game config YAML file [%s]", configFile))
	}
	if data.FinishedGamesCacheSize <= 0 {
		return GameConfig{}, fmt.Errorf("finished-games-cache-size must be positive in [%s]", configFile)
	}

	return data, nil
}
