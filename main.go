package main

import (
	"github.com/qclab/quorch/commands"
	"github.com/qclab/quorch/log"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
	log.Debug("Exiting main...")
}
