package main

import "github.com/diogo/teamlens/internal/commands"

func main() {
	commands.Execute()
}
