package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"hubdice.com/server/bot"
	"hubdice.com/server/game"
	"hubdice.com/server/logging"
	"hubdice.com/server/rest"
	"hubdice.com/server/test"
	"hubdice.com/server/util"
	"hubdice.com/server/util/random"
	"hubdice.com/server/util/simulation"
)

var runServer *bool
var runGameScriptTests *bool
var gameScriptsFileOrDir *string
var testName *string
var gameConfigFile *string
var simulate *bool
var numGames *uint
var simulationSeed *int64
var botTables *uint
var botPace *time.Duration
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	runServer = flag.Bool("server", true, "runs game server")
	runGameScriptTests = flag.Bool("script-tests", false, "runs script tests")
	gameScriptsFileOrDir = flag.String("game-script", "test/game-scripts", "runs tests with game script files")
	testName = flag.String("testname", "", "runs a specific test")
	gameConfigFile = flag.String("config", "", "YAML file containing the game config")
	simulate = flag.Bool("simulate", false, "plays bot games and prints the statistics")
	numGames = flag.Uint("num-games", 10000, "number of games when -simulate is set")
	simulationSeed = flag.Int64("seed", 0, "dice seed for -simulate, 0 picks a random seed")
	botTables = flag.Uint("bots", 2, "number of bot tables the server keeps playing")
	botPace = flag.Duration("bot-pace", 2*time.Second, "pause between bot turns")
}

func main() {
	// Global random seed that is used by the bot strategies.
	rand.Seed(random.NewSeed())

	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := logging.SetupGlobalLogger(nil)
	fmt.Printf("Setting log level to %s\n", logLevel)
	flag.Parse()

	if *runGameScriptTests {
		return testScripts()
	}

	if *simulate {
		seed := *simulationSeed
		if seed == 0 {
			seed = random.NewSeed()
		}
		mainLogger.Info().Int64("seed", seed).Msgf("Simulating %d games", *numGames)
		_, err := simulation.Run(int(*numGames), seed, os.Stdout)
		return err
	}

	config, err := loadGameConfig()
	if err != nil {
		return errors.Wrap(err, "Error while loading game config")
	}

	gameManager, err := game.NewGameManager(config, nil)
	if err != nil {
		return errors.Wrap(err, "Error while creating game manager")
	}

	if *runServer {
		return runWithBots(gameManager)
	}
	return nil
}

// loadGameConfig reads the config file when one is given and applies the
// environment overrides on top.
func loadGameConfig() (game.GameConfig, error) {
	config := game.DefaultGameConfig()
	if *gameConfigFile != "" {
		var err error
		config, err = game.ParseGameConfig(*gameConfigFile)
		if err != nil {
			return config, err
		}
	}
	if strict, ok := util.Env.GetStrictStart(); ok {
		config.StrictStart = strict
	}
	if size := util.Env.GetFinishedGamesCacheSize(); size > 0 {
		config.FinishedGamesCacheSize = size
	}
	return config, nil
}

func runWithBots(gameManager *game.Manager) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < int(*botTables); i++ {
		go runBotTable(ctx, gameManager, i+1)
	}

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		mainLogger.Info().Msgf("Received %s, stopping bot tables", sig)
		cancel()
		os.Exit(0)
	}()

	port := util.Env.GetRestPort()
	mainLogger.Info().Msgf("Running the rest server on port %d", port)
	return rest.RunRestServer(gameManager, port)
}

// runBotTable keeps a table of bots playing one game after another until the
// context is cancelled.
func runBotTable(ctx context.Context, gameManager *game.Manager, tableNo int) {
	for ctx.Err() == nil {
		g, err := gameManager.NewGame(nil)
		if err != nil {
			mainLogger.Error().Err(err).Int("table", tableNo).Msg("Unable to create bot game")
			return
		}
		bots := []*bot.PlayerBot{
			bot.NewPlayerBot(fmt.Sprintf("bot-%d-1", tableNo), bot.GreedyStrategy{}),
			bot.NewPlayerBot(fmt.Sprintf("bot-%d-2", tableNo), bot.RandomStrategy{Rand: rand.New(rand.NewSource(random.NewSeed()))}),
			bot.NewPlayerBot(fmt.Sprintf("bot-%d-3", tableNo), bot.GreedyStrategy{}),
			bot.NewPlayerBot(fmt.Sprintf("bot-%d-4", tableNo), bot.RandomStrategy{Rand: rand.New(rand.NewSource(random.NewSeed()))}),
		}
		outcome, err := bot.NewDriverBot(g, bots, *botPace).Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			mainLogger.Error().Err(err).Str(logging.GameCodeKey, g.GameCode()).Msg("Bot game failed")
			_ = gameManager.EndGame(g.GameCode())
			continue
		}
		mainLogger.Info().
			Str(logging.GameCodeKey, outcome.GameCode).
			Str("winner", outcome.WinnerName).
			Int("turns", outcome.Turns).
			Msg("Bot game finished")
	}
}

func testScripts() error {
	if *gameScriptsFileOrDir != "" {
		err := test.RunGameScriptTests(*gameScriptsFileOrDir, *testName)
		if err != nil {
			return err
		}
	}
	return nil
}
