// Command validate provides a small CLI that validates table configuration
// files (.json, .yaml, .yml) in a configs directory (default ../configs).
// It checks:
//   - The document against the embedded table schema
//   - Seat count and that every strategy and parameter is known
//   - Playability: a few seeded episodes run to completion
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/deepsea/game/config"
	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/service"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

// smokeEpisodes is how many seeded episodes validatePlayable runs.
const smokeEpisodes = 5

// stepLimit bounds a single episode; three rounds never need more.
const stepLimit = 10000

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single table configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	table, err := config.ParseTableConfig(data, filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	playable := validatePlayable(table)
	if !playable.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, playable.Errors...)
		return result
	}

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", table.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Seats: %d", len(table.Players)))
	for i, p := range table.Players {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Seat %d: %s as %s", i, name, strategy.Describe(p)))
	}
	if table.Seed != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Fixed seed: %d", *table.Seed))
	}
	result.Errors = append(result.Errors, playable.Errors...)

	return result
}

// validatePlayable runs a handful of seeded episodes and checks each one
// ends after exactly three rounds. On success Errors carries the average
// score per seat.
func validatePlayable(table *engine.TableConfig) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}
	totals := make([]int, len(table.Players))

	for seed := int64(1); seed <= smokeEpisodes; seed++ {
		eng, err := service.BuildEngine(table, seed)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("seed %d: %v", seed, err))
			return result
		}

		if _, err := eng.BulkStep(stepLimit); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("seed %d: %v", seed, err))
			continue
		}
		if !eng.IsGameOver() {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("seed %d: episode did not finish within %d steps", seed, stepLimit))
			continue
		}
		if eng.Round() != engine.RoundsPerGame {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("seed %d: episode ended after %d rounds", seed, eng.Round()))
			continue
		}

		for i, score := range eng.Scores() {
			totals[i] += score
		}
	}

	if result.Valid {
		avgs := make([]string, len(totals))
		for i, total := range totals {
			avgs[i] = fmt.Sprintf("%.1f", float64(total)/smokeEpisodes)
		}
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Average scores over %d seeds: [%s]", smokeEpisodes, strings.Join(avgs, " ")))
	}
	return result
}

// configFiles lists every table config file in dir, sorted.
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && config.IsConfigFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// main validates each config in the directory given as first argument
// (default ../configs), printing a concise report and exiting with non-zero
// status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := configFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
