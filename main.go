package main

import (
	"github.com/axellelanca/happythoughts/cmd"
	_ "github.com/axellelanca/happythoughts/cmd/cli"
	_ "github.com/axellelanca/happythoughts/cmd/server"
)

func main() {
	cmd.Execute()
}
