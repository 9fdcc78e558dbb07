package main

import "github.com/Tiliavir/trivial-time-sheet/cmd"

func main() {
	cmd.Execute()
}
