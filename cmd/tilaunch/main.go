package main

import "github.com/tilaunch/tilaunch/internal/cli"

func main() {
	cli.Execute()
}
