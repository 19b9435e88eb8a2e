// Command bookctl is the terminal client for the book catalog.
package main

import "github.com/shelfsync/book-catalog/internal/cli"

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
