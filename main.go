package main

import "github.com/javanhut/refscope/cli"

func main() {
	cli.Execute()
}
