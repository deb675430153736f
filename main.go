package main

import "github.com/KaramelBytes/bizreport-cli/cmd"

func main() {
	cmd.Execute()
}
