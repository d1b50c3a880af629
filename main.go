package main

import "github.com/duskdeveloper/discord-level-bot/cmd"

func main() {
	cmd.Execute()
}
