package main

import "wsnelect/cmd"

func main() {
	cmd.Execute()
}
