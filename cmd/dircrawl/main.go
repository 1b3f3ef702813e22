package main

import "github.com/dbsmedya/dircrawl/cmd/dircrawl/cmd"

func main() {
	cmd.Execute()
}
