package main

import "clipmill/internal/cli"

func main() {
	cli.Main()
}
