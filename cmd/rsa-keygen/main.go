// Package main is the entry point for the rsa-keygen application.
// It builds the root command with the keygen, prime, encrypt, selftest and
// history sub-commands and executes it.
package main

import (
	"log"
	"os"

	"infobez-lab-rsa/cmd/rsa-keygen/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stderr)
}
