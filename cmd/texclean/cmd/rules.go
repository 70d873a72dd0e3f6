package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"texclean/internal/cleaner"
)

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules applied with the current options, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			for _, name := range cleaner.RuleNames(s.options) {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}
