package main

import "github.com/KaramelBytes/reportcheck-cli/cmd"

func main() {
	cmd.Execute()
}
