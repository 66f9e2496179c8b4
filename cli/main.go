package main

import "satchel/cli/commands"

func main() {
	commands.Execute()
}
