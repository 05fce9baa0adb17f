package main

import "github.com/aomarket/aom-harvest/internal/cli"

func main() {
	cli.Execute()
}
