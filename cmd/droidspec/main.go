package main

import "github.com/droidspec/droidspec/cmd/droidspec/cmd"

func main() {
	cmd.Execute()
}
