package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-pgpmime/cmd/pgpmime/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
