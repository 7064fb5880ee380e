package main

import "crowdfund/cmd"

func main() {
	cmd.Execute()
}
