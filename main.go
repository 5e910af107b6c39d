package main

import (
	"log"

	"github.com/careerverse/careermatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
