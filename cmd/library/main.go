// Command library runs the borrowing service of the library and its maintenance tasks.
//
//	library serve          start the HTTP API
//	library migrate        create the database schema
//	library import-books   add the books of a CSV file to the catalog
//
// Configuration comes from the environment and an optional .env file, see package config.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
