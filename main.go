package main

import "github.com/ankimcp/ankimcp/cmd"

func main() {
	cmd.Execute()
}
