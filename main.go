package main

import "github.com/0xbe1/liquidated/cmd"

func main() {
	cmd.Execute()
}
