package main

import (
	"os"

	"syl-lint/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
