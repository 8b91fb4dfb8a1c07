package main

import "github.com/jengzang/polar-backend-go/internal/cli"

func main() {
	cli.Execute()
}
