package main

import "github.com/frahmantamala/gearguard/cmd"

func main() {
	cmd.Execute()
}
