package main

import "kvshift/cmd"

func main() {
	cmd.Execute()
}
