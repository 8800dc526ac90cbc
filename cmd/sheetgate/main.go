package main

import "github.com/sheetgate/sheetgate/internal/cli"

func main() {
	cli.Execute()
}
