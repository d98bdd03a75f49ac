package main

import "fmt"
import "os"
import "github.com/arcjet/gravity/cmd"

func main() {
	if err := cmd.RootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
