package main

import "github.com/marcus/brew/cmd/brew/commands"

func main() {
	commands.Execute()
}
