package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/config"
	"github.com/ziadkadry99/archdoc/internal/engine"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize archdoc configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure archdoc for your project and generates a .archdoc.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(".", engine.Builtin().Names())
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
