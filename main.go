package main

import "github.com/quarrybot/quarrybot/cmd"

func main() {
	cmd.Execute()
}
