package main

import "github.com/mcoot/rps-matchmaker/internal/cli"

func main() {
	cli.Execute()
}
