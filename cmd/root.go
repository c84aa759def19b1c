/*
Copyright © 2026 Veldrane
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veldrane/grim-arbiter/internal/journal"
	"github.com/veldrane/grim-arbiter/internal/session"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "grim-arbiter",
	Short: "Turn-based wargame combat arbiter",
	Long: `grim-arbiter resolves shooting and melee orders for a tabletop
wargame: staged hit, wound, save and damage rolls, terrain-aware
visibility and cover, and an append-only journal of every resolution.
Orders follow a small command grammar:

	shoot by: intercessors with: bolt-rifle at: boyz
	fight by: boyz with: choppa at: intercessors
	roll 2d6+1`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.grim-arbiter.yaml)")
	rootCmd.PersistentFlags().StringP("data_dir", "d", "", "battlefield data directory holding units/, boards/ and abilities/")
	rootCmd.PersistentFlags().Int64P("seed", "s", 0, "dice seed, 0 seeds from the current time")
	rootCmd.PersistentFlags().String("log_level", "warn", "log level: debug, info, warn or error")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data_dir"))
	viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".grim-arbiter")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func dataDir() string {
	dir := viper.GetString("data_dir")
	if dir == "" {
		dir = "./world"
	}
	return dir
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch viper.GetString("log_level") {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// bootstrapSession stands up a full game session over the configured
// data directory, with the journal stored next to the data.
func bootstrapSession(board string, units []string, journalPath string) (*session.Session, *journal.Store, error) {
	dir := dataDir()
	if journalPath == "" {
		journalPath = filepath.Join(dir, "journal.jsonl")
	}

	store, err := journal.NewStore(journalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal %s: %w", journalPath, err)
	}

	app, err := session.NewSession(session.Config{
		DataDirs:     []string{dir, filepath.Join(dir, "data")},
		AbilitiesDir: abilitiesDir(dir),
		Seed:         viper.GetInt64("seed"),
		Logger:       newLogger(),
	}, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	if err := app.LoadBattlefield(board, units...); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load battlefield: %w", err)
	}
	return app, store, nil
}

// abilitiesDir returns the manifest directory only when it exists, so
// a bare roster directory without abilities still works.
func abilitiesDir(dir string) string {
	path := filepath.Join(dir, "abilities")
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return ""
}
