package main

import "portal/cmd/userctl/cmd"

func main() {
	cmd.Execute()
}
