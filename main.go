package main

import "github.com/mabhi256/gripview/cmd"

func main() {
	cmd.Execute()
}
