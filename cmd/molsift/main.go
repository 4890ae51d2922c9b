// Command molsift is the drug-likeness evaluation CLI.
package main

import (
	"github.com/molsift/molsift/internal/interfaces/cli"
)

func main() {
	cli.Execute()
}
