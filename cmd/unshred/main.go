package main

import "unshred/cmd/unshred/cmd"

func main() {
	cmd.Execute()
}
