package main

import (
	"os"

	"github.com/grzeniux/pricewatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
