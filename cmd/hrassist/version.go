package main

import (
	"github.com/spf13/cobra"

	"github.com/skillsys/hrassist/pkg/presenter"
	"github.com/skillsys/hrassist/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information of hrassist in JSON format.`,
	// Skips configuration loading so version works with a broken config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		return presenter.JSON(version.Get())
	},
}
