package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonysync/backend/cmd/api/commands"
)

// @title HarmonySync API
// @version 1.0
// @description Personal planner backend bridging Google Calendar and tasks

// @contact.name HarmonySync
// @contact.url https://github.com/harmonysync/backend

// @host localhost:5000
// @BasePath /api

func main() {
	rootCmd := &cobra.Command{
		Use:   "harmonysync",
		Short: "HarmonySync API Server",
		Long:  `HarmonySync is a personal planner backend that joins Google Calendar events with a task store and archives completed tasks.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
