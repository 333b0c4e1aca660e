// Package version exposes build metadata injected at link time.
package version

// Version is the release version of the nix-manipulator binary.
var Version = "dev"

// Commit is the Git commit the binary was built from.
var Commit = "<unknown>"

// Date is the build timestamp.
var Date = "<unknown>"
