package main

import (
	"fmt"
	"os"

	"github.com/tlesnik44-code/origocode/internal/cli"
	"github.com/tlesnik44-code/origocode/internal/logger"
)

func main() {
	rootCmd := cli.NewRootCommand()

	err := rootCmd.Execute()
	_ = logger.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
