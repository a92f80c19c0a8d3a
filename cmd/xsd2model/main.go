package main

import (
	"log"
	"os"

	"github.com/modelmap/xsd2model/importer"
)

func main() {
	log.SetFlags(0)
	var cfg importer.Config
	cfg.Option(importer.LogOutput(log.New(os.Stderr, "", 0)))

	if err := cfg.Generate(os.Args[1:]...); err != nil {
		log.Fatal(err)
	}
}
