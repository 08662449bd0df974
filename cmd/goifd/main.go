package main

import "github.com/datar-psa/goifd/internal/cli"

func main() {
	cli.Execute()
}
