package test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/godo.v2/glob"
	yaml "gopkg.in/yaml.v2"
	"hubdice.com/server/game"
)

var testDriverLogger = log.With().Str("logger_name", "test::testdriver").Logger()

// ScriptTestResult holds the outcome of one script. Failures collects the
// verification mismatches; a script stops at its first operation error.
type ScriptTestResult struct {
	Filename string
	Passed   bool
	Disabled bool
	Elapsed  time.Duration
	Failures []error
}

func (s *ScriptTestResult) addError(e error) {
	s.Failures = append(s.Failures, e)
}

// TestDriver plays game scripts against a game manager and keeps the results
// in the order the scripts ran.
type TestDriver struct {
	ScriptResult map[string]*ScriptTestResult
	ScriptFiles  []string
	manager      *game.Manager
}

func NewTestDriver() (*TestDriver, error) {
	manager, err := game.NewGameManager(game.DefaultGameConfig(), game.NewMemoryStateTracker())
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create game manager for scripts")
	}
	return &TestDriver{
		ScriptResult: make(map[string]*ScriptTestResult),
		manager:      manager,
	}, nil
}

func loadGameScript(filename string) (*GameScript, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read game script %s", filename)
	}
	var gameScript GameScript
	if err := yaml.UnmarshalStrict(data, &gameScript); err != nil {
		return nil, errors.Wrapf(err, "Unable to parse game script %s", filename)
	}
	return &gameScript, nil
}

// RunGameScript plays a single script. The returned error covers scripts
// that could not be loaded or stopped early; verification mismatches are
// only recorded in the result.
func (t *TestDriver) RunGameScript(filename string) error {
	result := &ScriptTestResult{Filename: filename}
	t.ScriptResult[filename] = result
	t.ScriptFiles = append(t.ScriptFiles, filename)

	gameScript, err := loadGameScript(filename)
	if err != nil {
		result.addError(err)
		return err
	}
	if gameScript.Disabled {
		result.Disabled = true
		return nil
	}

	start := time.Now()
	script := TestGameScript{
		gameScript: gameScript,
		filename:   filename,
		result:     result,
	}
	err = script.run(t)
	result.Elapsed = time.Since(start)
	if err != nil {
		testDriverLogger.Error().Str("script", filename).Err(err).Msg("Script stopped")
		result.addError(err)
		return err
	}
	result.Passed = len(result.Failures) == 0
	return nil
}

// ReportResult prints every failure and a one line summary. It returns false
// if any enabled script failed.
func (t *TestDriver) ReportResult() bool {
	var passed, failed, disabled int
	for _, scriptFile := range t.ScriptFiles {
		result := t.ScriptResult[scriptFile]
		switch {
		case result.Disabled:
			disabled++
			fmt.Printf("SKIP  %s\n", scriptFile)
		case len(result.Failures) == 0:
			passed++
			fmt.Printf("PASS  %s (%v)\n", scriptFile, result.Elapsed)
		default:
			failed++
			fmt.Printf("FAIL  %s\n", scriptFile)
			for _, e := range result.Failures {
				fmt.Printf("      %s\n", e.Error())
			}
		}
	}
	fmt.Printf("%d passed, %d failed, %d disabled\n", passed, failed, disabled)
	return failed == 0
}

// scriptFiles expands a script file or directory into the sorted list of
// scripts whose file name contains testName.
func scriptFiles(fileOrDir string, testName string) ([]string, error) {
	info, err := os.Stat(fileOrDir)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open %s", fileOrDir)
	}
	pattern := fileOrDir
	if info.IsDir() {
		pattern = filepath.Join(fileOrDir, "**", "*.yaml")
	}
	assets, _, err := glob.Glob([]string{pattern})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get game script file(s) from %s", fileOrDir)
	}

	var files []string
	for _, asset := range assets {
		if asset.IsDir() {
			continue
		}
		if testName != "" && !strings.Contains(asset.Name(), testName) {
			continue
		}
		files = append(files, asset.Path)
	}
	sort.Strings(files)
	return files, nil
}

// RunGameScriptTests runs the scripts under fileOrDir and fails when none ran
// or any failed.
func RunGameScriptTests(fileOrDir string, testName string) error {
	files, err := scriptFiles(fileOrDir, testName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("No game scripts found in %s", fileOrDir)
	}

	testDriver, err := NewTestDriver()
	if err != nil {
		return err
	}
	for _, file := range files {
		testDriverLogger.Info().Str("script", file).Msg("Running game script")
		// a stopped script is already recorded in its result
		_ = testDriver.RunGameScript(file)
	}

	if !testDriver.ReportResult() {
		return fmt.Errorf("One or more scripts failed")
	}
	return nil
}
