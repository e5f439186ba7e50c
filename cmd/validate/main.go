package main

import (
	"fmt"
	"os"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

// validate loads a catalog data directory and reports whether it passes
// schema and semantic validation. Intended for CI and content authoring.
func main() {
	dataDir := "./data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	fmt.Printf("Validating catalog in %s...\n", dataDir)

	cat, err := catalog.Load(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	materials := 0
	tiers := 0
	for _, el := range cat.Elements {
		materials += len(el.Materials)
		tiers += len(el.Tiers)
	}
	choices := 0
	for _, ev := range cat.Events {
		choices += len(ev.Choices)
	}

	fmt.Printf("Catalog is valid: %d elements, %d recipes, %d materials, %d seasons, %d events (%d choices)\n",
		len(cat.Elements), tiers, materials, len(cat.Seasons), len(cat.Events), choices)
}
