package main

import "github.com/ethanxxxl/ProgrammableTanks2-sub000/cmd/csexp/cmd"

func main() {
	cmd.Execute()
}
