package main

import "github.com/simonyos/reactchat/cmd"

func main() {
	cmd.Execute()
}
