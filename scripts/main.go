package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/paymenu/grouppay/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "generate-apikey",
		Description: "Generate a new API key",
		Run:         internal.GenerateNewAPIKey,
	},
	{
		Name:        "onboard-account",
		Description: "Onboard a new account",
		Run:         internal.OnboardNewAccount,
	},
}

func main() {
	// Define command line flags
	var (
		listCommands bool
		cmdName      string
		accountID    string
		accountName  string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&accountID, "account-id", "", "Account ID for operations")
	flag.StringVar(&accountName, "account-name", "", "Account name for operations")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	if accountID != "" {
		os.Setenv("ACCOUNT_ID", accountID)
	}
	if accountName != "" {
		os.Setenv("ACCOUNT_NAME", accountName)
	}

	// Find and run the command
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
