/*
Copyright © 2026 Veldrane
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veldrane/grim-arbiter/internal/combat"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [order]",
	Short: "Resolve one combat order against a battlefield",
	Long: `Loads the named board and units, resolves a single order, appends
the outcome to the journal and prints the dice trace.
Usage:
	grim-arbiter resolve --board demo --units intercessors,boyz "shoot by: intercessors with: bolt-rifle at: boyz"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		board, _ := cmd.Flags().GetString("board")
		units, _ := cmd.Flags().GetStringSlice("units")
		journalPath, _ := cmd.Flags().GetString("journal")
		asJSON, _ := cmd.Flags().GetBool("json")

		if len(units) == 0 {
			fmt.Println("Error: must specify the engaged units with --units")
			os.Exit(1)
		}

		app, store, err := bootstrapSession(board, units, journalPath)
		if err != nil {
			fmt.Printf("Failed to bootstrap game session: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		res, err := app.Execute(args[0])
		if err != nil {
			fmt.Printf("Order error: %v\n", err)
			os.Exit(1)
		}

		if !res.Success {
			fmt.Println("Order rejected:")
			for _, e := range res.Errors {
				fmt.Printf("  - %s\n", e)
			}
			os.Exit(1)
		}

		if asJSON {
			out, err := json.MarshalIndent(res.Traces, "", "  ")
			if err != nil {
				fmt.Printf("Failed to encode traces: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		} else {
			printTraces(res.Traces)
		}

		if len(res.Messages) > 0 {
			fmt.Println("\nOutcome:")
			for _, m := range res.Messages {
				fmt.Printf("  %s\n", m)
			}
		} else {
			fmt.Println("\nOutcome: no change")
		}
	},
}

func printTraces(traces []combat.Trace) {
	for _, tr := range traces {
		line := fmt.Sprintf("[%s] %s", tr.Stage, tr.Context)
		if tr.Weapon != "" {
			line += fmt.Sprintf(" (%s)", tr.Weapon)
		}
		fmt.Println(line)
		if len(tr.Rolls) > 0 {
			fmt.Printf("    rolls: %v (threshold %d+, modifier %+d)\n", tr.Rolls, tr.Threshold, tr.Modifier)
		}
		if len(tr.Rerolls) > 0 {
			fmt.Printf("    rerolls: %v\n", tr.Rerolls)
		}
		switch tr.Stage {
		case combat.StageResolveAttacks:
			fmt.Printf("    attacks: %d\n", tr.TotalAttacks)
		case combat.StageHitRoll:
			fmt.Printf("    hits: %d (critical %d, sustained %d)\n", tr.Successes, tr.CriticalHits, tr.SustainedHits)
		case combat.StageWoundRoll:
			fmt.Printf("    wounds: %d (auto %d, critical %d)\n", tr.Successes, tr.AutoWounds, tr.CriticalWounds)
		case combat.StageSaveRoll:
			fmt.Printf("    failed saves: %d (bypassed %d)\n", tr.Successes, tr.Bypassed)
		case combat.StageDamageAllocation:
			fmt.Printf("    damage: %d (ignored %d), models slain: %d\n", tr.DamageDealt, tr.FNPIgnored, tr.ModelsSlain)
		}
		if len(tr.Notes) > 0 {
			fmt.Printf("    notes: %s\n", strings.Join(tr.Notes, "; "))
		}
	}
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringP("board", "b", "demo", "Board name under <data_dir>/boards")
	resolveCmd.Flags().StringSliceP("units", "u", nil, "Unit names under <data_dir>/units")
	resolveCmd.Flags().StringP("journal", "j", "", "Journal file path (default <data_dir>/journal.jsonl)")
	resolveCmd.Flags().Bool("json", false, "Print the full resolution trace as JSON")
}
