package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"collint/internal/config"
	"collint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available lint rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		v, err := cfg.Vocab()
		if err != nil {
			return err
		}

		u := GetUI()
		for _, rule := range rules.DefaultRegistry(v, nil).Rules() {
			fmt.Fprintf(u.Writer, "%s\n    %s\n", u.Styles.Header.Render(rule.Name()), rule.Description())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(rulesCmd)
}
