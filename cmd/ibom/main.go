package main

import "github.com/LibrePCB/interactive-html-bom-go/cmd/ibom/cmd"

func main() {
	cmd.Execute()
}
