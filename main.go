package main

import "github.com/darmiel/mcauth/cmd"

func main() {
	cmd.Execute()
}
