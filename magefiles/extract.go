//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and runs it over documents/ into output/.
func Extract() error {
	mg.Deps(Init, Build)
	return sh.RunV("./bin/extract-documents")
}
