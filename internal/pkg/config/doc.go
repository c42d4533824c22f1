// Package config holds the validated settings of the rsa-keygen tool:
// key generation parameters, logging and the generation journal. Settings
// come from defaults, then an optional .env file and the process
// environment, then command line flags.
package config
