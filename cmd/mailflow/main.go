package main

import (
	"github.com/pixelvide/mailflow/pkg/root"

	_ "github.com/pixelvide/mailflow/pkg/console" // Register commands
)

func main() {
	root.Execute()
}
