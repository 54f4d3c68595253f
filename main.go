package main

import "github.com/zinc-sig/imagedrop/cmd"

func main() {
	cmd.Execute()
}
