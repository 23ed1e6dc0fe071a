package main

import (
	"os"

	"i4.energy/across/wifigw/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
