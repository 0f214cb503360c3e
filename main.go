package main

import "github.com/choreboard/choreboard-services/cmd"

func main() {
	cmd.Execute()
}
