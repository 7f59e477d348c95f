package main

import "github.com/pfrederiksen/liga-rankings/internal/cli"

func main() {
	cli.Execute()
}
