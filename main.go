package main

import "github.com/rootsektor/ripe-api-query-tool/cmd"

func main() {
	cmd.Execute()
}
