package main

import "github.com/strrl/chatpulse/internal/cmd"

func main() {
	cmd.Execute()
}
