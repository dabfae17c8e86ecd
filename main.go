package main

import "github.com/mj1618/menubar-shelf/cmd"

func main() {
	cmd.Execute()
}
