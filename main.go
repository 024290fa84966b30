package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thenoetrevino/cardsort/cmd"
	"github.com/thenoetrevino/cardsort/internal/cli"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
