package main

import (
	"os"

	"github.com/tmih06/auto-subs/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
