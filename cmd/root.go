package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/happythoughts/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// cfgErr keeps the loading error so commands can report it when they need the configuration
var cfgErr error

var configDir string

// RootCmd is the base command for the CLI application
// All other commands (run-server, migrate, create, like, feed, stats) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "happythoughts",
	Short: "A happy thoughts feed backend",
	Long: `A small REST backend for a "happy thoughts" feed: post short messages,
read the most recent ones and like them.`,
}

// Execute is the main entry point for the Cobra application
// It is called from 'main.go' and handles command execution and error handling
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Configuration is loaded before any command executes
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "./configs", "Directory containing config.yaml")

	// Subcommands register themselves via their own init() functions,
	// which keeps this package free of import cycles.
}

// initConfig loads the application configuration
// This function is called at the beginning of every Cobra command execution
func initConfig() {
	opts := config.DefaultOptions()
	opts.ConfigPath = configDir

	Cfg, cfgErr = config.LoadConfigWithOptions(opts)
	if cfgErr != nil {
		log.Printf("Warning: Problem loading configuration: %v", cfgErr)
	}
}

// MustConfig returns the loaded configuration or stops the program.
func MustConfig() *config.Config {
	if Cfg == nil {
		log.Fatalf("Failed to load configuration: %v", cfgErr)
	}
	return Cfg
}
