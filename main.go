package main

import "github.com/minispec/visual/cmd"

func main() {
	cmd.Execute()
}
