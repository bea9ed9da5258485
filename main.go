package main

import "github.com/E-Rombi/route-go/cmd"

func main() {
	cmd.Execute()
}
