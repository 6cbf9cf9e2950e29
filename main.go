package main

import "github.com/nextlevelbuilder/healthbot/cmd"

func main() {
	cmd.Execute()
}
