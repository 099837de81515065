// Command billsctl inspects and feeds the bills backends from the shell.
package main

import (
	"os"

	"billed/cmd/billsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
