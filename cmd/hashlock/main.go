package main

import "github.com/jmcleod/hashlock/cmd/hashlock/cmd"

func main() {
	cmd.Execute()
}
