package main

import "github.com/Assas2401419/Guardian-Link/cmd/guardian-server/cmd"

func main() {
	cmd.Execute()
}
