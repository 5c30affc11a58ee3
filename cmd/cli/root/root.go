package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "tj",
	Short:         "Trading journal CLI",
	Long:          "Command line interface for recording and reviewing trades through the Trading Journal API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
