package main

import "github.com/lesplan/untis-tabulator/cmd"

func main() {
	cmd.Execute()
}
