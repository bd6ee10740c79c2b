package test

/*
  disabled: false
  game-config:
    title: triple wild
    strict-start: true

  players:
    - name: ann
    - name: bob
      seat: 1

  setup:
    pot: 5
    current: 0
    seats:
      - seat: 1
        chips: 2

  turns:
    - seat: 0
      dice: [Wild, Wild, Wild]
      wild-choices:
        - type: take-pot
      verify:
        pot: 0
        seats:
          - seat: 0
            chips: 8
        events: [wild-resolved, turn-changed]
*/
type GameScript struct {
	Disabled   bool             `yaml:"disabled"`
	GameConfig ScriptGameConfig `yaml:"game-config"`
	Players    []ScriptPlayer   `yaml:"players"`
	Setup      *ScriptSetup     `yaml:"setup"`
	Turns      []ScriptTurn     `yaml:"turns"`
}

type ScriptGameConfig struct {
	Title       string `yaml:"title"`
	StrictStart *bool  `yaml:"strict-start"`
}

type ScriptPlayer struct {
	Name        string `yaml:"name"`
	Seat        *int   `yaml:"seat"`
	ExpectError string `yaml:"expect-error"`
}

// ScriptSetup overrides the table after the players joined, as if the game
// had been running for a while.
type ScriptSetup struct {
	Pot     int          `yaml:"pot"`
	Current int          `yaml:"current"`
	Seats   []ScriptSeat `yaml:"seats"`
}

type ScriptSeat struct {
	Seat       int  `yaml:"seat"`
	Chips      int  `yaml:"chips"`
	Grace      bool `yaml:"grace"`
	Eliminated bool `yaml:"eliminated"`
}

type ScriptTurn struct {
	Seat        int            `yaml:"seat"`
	Dice        []string       `yaml:"dice"`
	WildChoices []ScriptChoice `yaml:"wild-choices"`
	ExpectError string         `yaml:"expect-error"`
	Verify      *ScriptVerify  `yaml:"verify"`
}

type ScriptChoice struct {
	Type        string `yaml:"type"`
	Target      int    `yaml:"target"`
	Amount      int    `yaml:"amount"`
	Seat        *int   `yaml:"seat"`
	ExpectError string `yaml:"expect-error"`
}

type ScriptVerify struct {
	Phase   string             `yaml:"phase"`
	Current *int               `yaml:"current"`
	Pot     *int               `yaml:"pot"`
	Winner  *int               `yaml:"winner"`
	Seats   []ScriptSeatVerify `yaml:"seats"`
	// event kinds that must have been emitted during the turn
	Events []string `yaml:"events"`
	// event kinds that must not have been emitted during the turn
	NoEvents []string `yaml:"no-events"`
}

type ScriptSeatVerify struct {
	Seat       int   `yaml:"seat"`
	Chips      *int  `yaml:"chips"`
	Grace      *bool `yaml:"grace"`
	Eliminated *bool `yaml:"eliminated"`
}
