package main

import "github.com/Mohsinsiddi/multisender/cmd"

func main() {
	cmd.Execute()
}
