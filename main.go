package main

import "github.com/truthylabs/truthy/cmd"

func main() {
	cmd.Execute()
}
