package main

import "github.com/alexiusacademia/gofd/cmd"

func main() {
	cmd.Execute()
}
