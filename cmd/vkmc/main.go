package main

import "os"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fatal(err)
	}
	os.Exit(0)
}
