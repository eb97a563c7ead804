package main

import (
	"bitbucket.org/sotavant/magic-mirror-skill/internal/config"
	"os"
)

var cfg *config.Config

func parseFlags() error {
	c, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
