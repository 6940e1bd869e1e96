package main

import (
	"github.com/binary-io/binaryio/cmd/bio/cmd"
)

func main() {
	cmd.Execute()
}
