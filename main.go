package main

import "github.com/frahmantamala/equipment-tracking/cmd"

func main() {
	cmd.Execute()
}
