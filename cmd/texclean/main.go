package main

import (
	"os"

	"texclean/cmd/texclean/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
