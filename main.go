package main

import "transect-admin/cmd"

func main() {
	cmd.Execute()
}
