/*
Copyright © 2026 Veldrane
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veldrane/grim-arbiter/internal/effects"
	"github.com/veldrane/grim-arbiter/internal/profile"
)

var validateCmd = &cobra.Command{
	Use:   "validate [unit_name...]",
	Short: "Check roster and board files for structural errors",
	Long: `Loads and normalizes the named unit files, the board and the ability
manifests, reporting every structural problem found. With no arguments
all units under <data_dir>/units are checked.`,
	Run: func(cmd *cobra.Command, args []string) {
		board, _ := cmd.Flags().GetString("board")
		dir := dataDir()

		names := args
		if len(names) == 0 {
			var err error
			names, err = unitNames(dir)
			if err != nil {
				fmt.Printf("Failed to list units: %v\n", err)
				os.Exit(1)
			}
		}

		loader := profile.NewLoader([]string{dir, filepath.Join(dir, "data")})
		failures := 0

		for _, name := range names {
			unit, err := loader.LoadUnit(name)
			if err != nil {
				fmt.Printf("FAIL  unit %s: %v\n", name, err)
				failures++
				continue
			}
			fmt.Printf("OK    unit %s: %d models, %d weapons\n", unit.UnitID, len(unit.Models), len(unit.Weapons))
		}

		if board != "" {
			b, err := loader.LoadBoard(board)
			if err != nil {
				fmt.Printf("FAIL  board %s: %v\n", board, err)
				failures++
			} else {
				fmt.Printf("OK    board %s: %d terrain features\n", board, len(b.Features))
			}
		}

		if abilities := abilitiesDir(dir); abilities != "" {
			if err := checkAbilities(abilities); err != nil {
				fmt.Printf("FAIL  abilities: %v\n", err)
				failures++
			} else {
				fmt.Printf("OK    abilities %s\n", abilities)
			}
		}

		if failures > 0 {
			fmt.Printf("\n%d file(s) failed validation\n", failures)
			os.Exit(1)
		}
	},
}

func unitNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "units"))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no unit files found under %s/units", dir)
	}
	return names, nil
}

// checkAbilities compiles every manifest condition so broken CEL
// expressions surface here instead of at resolution time.
func checkAbilities(dir string) error {
	registry, err := effects.NewRegistry(func(string) int { return 0 })
	if err != nil {
		return err
	}
	_, err = effects.LoadManifests(registry, dir)
	return err
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("board", "b", "", "Board name under <data_dir>/boards to validate as well")
}
