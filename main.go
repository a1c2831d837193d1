package main

import "github.com/netprtony/KoyaOracle-sub001/cmd"

func main() {
	cmd.Execute()
}
