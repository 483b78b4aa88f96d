package main

import "github.com/niksi-nova/swasthya-ai/cmd/swasthya/cmd"

func main() {
	cmd.Execute()
}
