package main

import "docchunk/internal/cli"

func main() {
	cli.Execute()
}
