package main

import "link-verifier/cmd"

func main() {
	cmd.Execute()
}
