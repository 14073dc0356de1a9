package main

import "aiprov/cmd"

func main() {
	cmd.Execute()
}
