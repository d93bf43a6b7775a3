package main

import "github.com/kamal-hamza/qrx/cmd"

func main() {
	cmd.Execute()
}
