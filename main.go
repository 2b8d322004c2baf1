package main

import (
	"TamilFM/cmd"
)

func main() {
	cmd.Execute()
}
