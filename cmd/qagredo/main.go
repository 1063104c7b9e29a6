// cmd/qagredo/main.go
package main

import (
	cmd "github.com/tohyewhong/qagredo-local/internal/cli"
)

// main starts the qagredo CLI application by delegating to the
// cobra root command defined in the qagredo package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
