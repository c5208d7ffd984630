package main

import (
	_ "time/tzdata"

	"github.com/gaurav-prasanna/postpipe/cmd"
)

func main() {
	cmd.Execute()
}
