package main

import "github.com/GuestDaProtogen/Vortex-MacroPad/internal/cli"

func main() {
	cli.Execute()
}
