package main

import "github.com/bcnelson/dhcp-fleet-manager/cmd/fleetctl/cmd"

func main() {
	cmd.Execute()
}
