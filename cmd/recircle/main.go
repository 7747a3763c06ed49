// Package main is the single-binary entrypoint for ReCircle.
package main

import "github.com/recircle-app/recircle/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
