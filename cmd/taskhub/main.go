package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "taskhub",
	Short: "TaskHub — task, project and team management backend",
	Long:  "TaskHub is a REST backend for managing tasks, projects, teams and tags, with JWT bearer authentication and aggregate reporting.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/taskhub.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
