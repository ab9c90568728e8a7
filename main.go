package main

import (
	"os"

	"loom/cmd"
)

func main() {
	os.Exit(cmd.RunDriver())
}
