package main

import (
	"os"

	pragyacmder "github.com/neuradynamics/pragya/cmd/pragya"
)

func main() {
	cmd := pragyacmder.NewPragyaCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
