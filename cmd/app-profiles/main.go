package main

import (
	"log"
	"os"

	internalcli "github.com/leodido/appprofiles/internal/cli"
)

var version = "dev"

func main() {
	c, err := internalcli.NewRootCmd(version)
	if err != nil {
		log.Fatalf("Error creating command: %v", err)
	}
	if err := c.Execute(); err != nil {
		os.Exit(1)
	}
}
