package main

import (
	"dropfix/cmd"
	"os"
)

func main() {
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "gui")
	}
	cmd.Execute()
}
