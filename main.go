package main

import "jyu-rooms/cmd"

func main() {
	cmd.Execute()
}
