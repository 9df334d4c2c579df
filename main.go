/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/EO-DataHub/eodhp-user-admin/cmd"

func main() {
	cmd.Execute()
}
