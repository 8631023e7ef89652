package main

import "pizza-ordering/cmd"

func main() {
	cmd.Execute()
}
