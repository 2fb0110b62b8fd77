package main

import "github.com/KaramelBytes/bmireport/cmd"

func main() {
	cmd.Execute()
}
