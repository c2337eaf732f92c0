package main

import "github.com/JudioLam9/contracts-v3/cmd/cli"

func main() {
	cli.Execute()
}
