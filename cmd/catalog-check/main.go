package main

import (
	"fmt"
	"os"
	"strings"

	"model_gateway/internal/catalog"
	"model_gateway/internal/restrictions"
)

// catalog-check validates a catalog declaration and the restriction
// environment before a deployment rolls out. It loads the catalog the same
// way the gateway would, reports allow-list entries the catalog does not
// know, and fails when no backend has any usable model.
func main() {
	fmt.Println("Model Gateway - Catalog Check")

	var cat *catalog.Catalog
	var err error

	if path := os.Getenv("CATALOG_FILE"); path != "" {
		fmt.Printf("Loading catalog from %s\n", path)
		cat, err = catalog.LoadFile(path)
	} else {
		fmt.Println("Using the builtin catalog")
		cat, err = catalog.Builtin()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid catalog: %v\n", err)
		os.Exit(1)
	}

	eval := restrictions.NewWithCatalog(restrictions.FromEnv(), cat)

	exitCode := 0
	if unknown := eval.ValidateAgainstCatalog(cat, nil); len(unknown) > 0 {
		fmt.Println("\nAllow-list entries unknown to the catalog:")
		for _, entry := range unknown {
			fmt.Printf("  - %s\n", entry)
		}
		exitCode = 1
	}

	fmt.Println("\nEffective configuration:")
	usable := 0
	for _, backend := range cat.Backends() {
		if !eval.BackendEnabled(backend.Name) {
			fmt.Printf("  %s: disabled\n", backend.Name)
			continue
		}
		var allowed []string
		for _, desc := range backend.Models {
			if eval.IsAllowed(backend.Name, desc.CanonicalID) {
				allowed = append(allowed, desc.CanonicalID)
			}
		}
		usable += len(allowed)
		fmt.Printf("  %s: %s\n", backend.Name, strings.Join(allowed, ", "))
	}

	if usable == 0 {
		fmt.Fprintln(os.Stderr, "\nERROR: No backend has any usable model; every dispatch would fail")
		os.Exit(1)
	}

	fmt.Printf("\n%d usable models across %d backends\n", usable, len(cat.Backends()))
	os.Exit(exitCode)
}
