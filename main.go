package main

import "github.com/frahmantamala/investment-manager/cmd"

func main() {
	cmd.Execute()
}
