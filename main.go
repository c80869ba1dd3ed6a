package main

import "phototagger/cmd"

func main() {
	cmd.Execute()
}
