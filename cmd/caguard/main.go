package main

import "caguard/internal/cli"

func main() {
	cli.Execute()
}
