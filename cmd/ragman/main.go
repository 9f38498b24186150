package main

import "github.com/custodia-labs/ragman/internal/adapters/driving/cli"

func main() {
	cli.Main()
}
