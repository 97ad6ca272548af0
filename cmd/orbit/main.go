// Command orbit runs the interactive viewer: a browser bridge, a desktop
// preview, and small catalog utilities.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.SetFlags(0)
		log.Printf("orbit: %v", err)
		os.Exit(1)
	}
}
