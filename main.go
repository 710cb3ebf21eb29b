package main

import (
	"log"

	"github.com/fmuoria/ats-filter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
