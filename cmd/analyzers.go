package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/archdoc/internal/engine"
)

var analyzersCmd = &cobra.Command{
	Use:   "analyzers",
	Short: "List the available analyzers and generators",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Analyzers"))
		for _, a := range eng.Analyzers() {
			kinds := make([]string, len(a.Kinds))
			for i, k := range a.Kinds {
				kinds[i] = string(k)
			}
			fmt.Fprintf(out, "  %-12s %s\n", a.Name, strings.Join(a.Extensions, " "))
			fmt.Fprintf(out, "  %-12s kinds: %s\n", "", strings.Join(kinds, ", "))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render("Generators"))
		for _, g := range eng.Generators() {
			state := "enabled"
			if !g.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "  %-12s %-9s %s\n", g.Name, state, g.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzersCmd)
}
