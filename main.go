package main

import "github.com/ridoystarlord/bakery/cmd"

func main() {
	cmd.Execute()
}
