package main

import "github.com/diogo/catchat/internal/commands"

func main() {
	commands.Execute()
}
