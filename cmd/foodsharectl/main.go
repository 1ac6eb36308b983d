package main

import "foodshare-service/cmd/foodsharectl/cli"

func main() {
	cli.Execute()
}
