package main

import "github.com/waytrace/waytrace/cmd"

func main() {
	cmd.Execute()
}
