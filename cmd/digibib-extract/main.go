package main

import (
	"os"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}
