package main

import "vired/cmd/vired-cli/cmd"

func main() {
	cmd.Execute()
}
