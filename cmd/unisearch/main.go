// Command unisearch queries the university program dataset from the terminal.
package main

import (
	"os"

	"github.com/JonMunkholm/UniSearch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
