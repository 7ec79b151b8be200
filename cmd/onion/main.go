package main

import "github.com/hardy/onion/internal/commands"

func main() {
	commands.Execute()
}
