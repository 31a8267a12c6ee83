package main

import (
	"fmt"
	"os"

	"github.com/ryotak25/kaidoku/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
