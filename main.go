package main

import "github.com/dyike/ButterflyBrain/internal/cli"

func main() {
	cli.Run()
}
