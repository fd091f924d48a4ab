package main

import "github.com/avisionlabs/avision/cmd"

func main() {
	cmd.Execute()
}
