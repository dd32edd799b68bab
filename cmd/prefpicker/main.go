package main

import (
	"os"

	"github.com/MozillaSecurity/prefpicker/cmd/prefpicker/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
