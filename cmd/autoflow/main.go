package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/notesmith/autoflow/internal/version"
)

func main() {
	ctx := context.Background()

	if err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion(version.Version),
	); err != nil {
		os.Exit(1)
	}
}
