package main

import "github.com/philipparndt/godtr/cmd"

func main() {
	cmd.Execute()
}
