package main

import (
	"os"

	"latexorder-bot/cmd/latexorder/commands"
)

// ENTRY POINT

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
