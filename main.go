package main

import "github.com/achernya/autoclip/cmd"

func main() {
	cmd.Execute()
}
