/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/crashviz/cmd"

func main() {
	cmd.Execute()
}
