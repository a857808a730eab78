package main

import (
	"fmt"
	"os"

	"github.com/de-tools/takeoff/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	// TAKEOFF_ variables may come from a local .env file
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Output:    os.Stdout,
		LogOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
