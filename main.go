package main

import "github.com/chrisdamba/runwaysim/cmd"

func main() {
	cmd.Execute()
}
