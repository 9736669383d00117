// Command wikicorpus builds a cleaned text corpus from wikipedia dumps
// and prepares FastText data for the math text classifier.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
