package main

import "github.com/tristendillon/pydeploy/cmd"

func main() {
	cmd.Execute()
}
