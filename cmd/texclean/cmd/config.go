package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"texclean/internal/types"
)

func newConfigCmd(a *app) *cobra.Command {
	var save bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration that results from the config file, the TEXCLEAN_*
environment variables and the given flags. With --save it is written back to
the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}

			cfg := &types.Config{
				KeepComments:             s.options.KeepComments,
				KeepInlineMathDelimiters: s.options.KeepInlineMathDelimiters,
				NormalizeUnicode:         s.options.NormalizeUnicode,
				Encoding:                 s.encoding,
				SkipRules:                s.options.SkipRules,
				LogLevel:                 strings.ToLower(s.logLevel.String()),
				LogFile:                  s.logFile,
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return types.NewAppError(types.ErrInternal, "failed to marshal config", err)
			}
			fmt.Fprintln(a.stdout, string(data))

			if save {
				cm.SetConfig(cfg)
				if err := cm.Save(); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "saved %s\n", cm.GetConfigPath())
			}
			return nil
		},
	}
	configCmd.Flags().BoolVar(&save, "save", false, "write the effective configuration to the config file")
	return configCmd
}
