package main

import "shop-api/cmd/shop-api/commands"

func main() {
	commands.Execute()
}
