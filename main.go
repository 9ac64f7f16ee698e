package main

import "github.com/nishizumi-racing/lapcompare/cmd"

func main() {
	cmd.Execute()
}
