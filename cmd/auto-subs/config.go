package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tmih06/auto-subs/internal/config"
	"github.com/tmih06/auto-subs/pkg/log"
)

func newConfigCmd(opts *globalOpts) *cobra.Command {
	var (
		show      bool
		writeInit bool
		showPath  bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := opts.configPath
			if target == "" {
				target = config.DefaultPath()
			}

			switch {
			case showPath:
				fmt.Fprintln(cmd.OutOrStdout(), target)
				return nil
			case writeInit:
				if err := config.Init(target); err != nil {
					return err
				}
				log.Info("wrote %s", target)
				return nil
			default:
				out, err := toml.Marshal(opts.cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the effective configuration (default)")
	cmd.Flags().BoolVar(&writeInit, "init", false, "write a commented sample config file")
	cmd.Flags().BoolVar(&showPath, "path", false, "print the config file location")
	return cmd
}
