package main

import "github.com/pfrederiksen/notion-meetings/internal/cli"

func main() {
	cli.Execute()
}
