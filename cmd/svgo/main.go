package main

import (
	"context"
	"os"

	"github.com/aretw0/svgo/internal/cli"
)

func main() {
	cli.Main(context.Background(), cli.NewRootCommand(), cli.Register, os.Args)
}
