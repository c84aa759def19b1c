/*
Copyright © 2026 Veldrane
*/
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [order]",
	Short: "Monte Carlo an attack order without changing the battlefield",
	Long: `Resolves the same attack order many times against the loaded state
and reports the damage distribution. Nothing is journaled and the
battlefield is left untouched.
Usage:
	grim-arbiter simulate -n 10000 --board demo --units intercessors,boyz "shoot by: intercessors with: bolt-rifle at: boyz"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		board, _ := cmd.Flags().GetString("board")
		units, _ := cmd.Flags().GetStringSlice("units")
		iterations, _ := cmd.Flags().GetInt("iterations")

		if len(units) == 0 {
			fmt.Println("Error: must specify the engaged units with --units")
			os.Exit(1)
		}
		if iterations < 1 {
			fmt.Println("Error: iterations must be at least 1")
			os.Exit(1)
		}

		app, store, err := bootstrapSession(board, units, os.DevNull)
		if err != nil {
			fmt.Printf("Failed to bootstrap game session: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		bar := progressbar.Default(int64(iterations), "Simulating")
		samples, err := app.Simulate(args[0], iterations, func(int) {
			bar.Add(1)
		})
		if err != nil {
			fmt.Printf("\nSimulation failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println()
		printDistribution(samples)
	},
}

func printDistribution(samples []int) {
	total := 0
	min, max := samples[0], samples[0]
	counts := map[int]int{}
	for _, s := range samples {
		total += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
		counts[s]++
	}

	fmt.Printf("Iterations: %d\n", len(samples))
	fmt.Printf("Mean damage: %.2f (min %d, max %d)\n", float64(total)/float64(len(samples)), min, max)

	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Ints(values)

	fmt.Println("Distribution:")
	for _, v := range values {
		pct := 100 * float64(counts[v]) / float64(len(samples))
		fmt.Printf("  %3d damage: %6.2f%%\n", v, pct)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("board", "b", "demo", "Board name under <data_dir>/boards")
	simulateCmd.Flags().StringSliceP("units", "u", nil, "Unit names under <data_dir>/units")
	simulateCmd.Flags().IntP("iterations", "n", 1000, "Number of simulation runs")
}
