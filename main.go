package main

import "github.com/KaramelBytes/sdgdash/cmd"

func main() {
	cmd.Execute()
}
