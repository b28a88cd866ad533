package main

import "github.com/nbtools/ipclaunch/cmd"

func main() {
	cmd.Execute()
}
