package main

import (
	"os"

	"tracker-console/cmd/console/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
