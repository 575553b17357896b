package main

import (
	"context"
	"os"

	"github.com/ictalent/talent-network/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
