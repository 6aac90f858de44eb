package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "celes",
	Short: "Celes is the transpiler driver for celes projects.",
	Long:  "Celes is the transpiler driver for celes projects. It reads the Project.toml in the working directory and builds the program it describes.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Celes",
	Long:  `All software has versions. This is Celes'`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Celes v0.1 -- HEAD")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
}
