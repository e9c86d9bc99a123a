// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("%v: %v", app.Name, err)
	}
}
