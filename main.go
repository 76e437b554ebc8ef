package main

import "github.com/fakeyudi/tomo/cmd"

func main() {
	cmd.Execute()
}
