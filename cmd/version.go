/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/patchwork/internal/ops"
	"github.com/fulmenhq/patchwork/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var (
		extended bool
		format   outputFormat
	)
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{groupAnnotation: string(ops.GroupSupport)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := buildinfo.Current()
			out := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(out, format, info)
			}

			fmt.Fprintf(out, "patchwork %s\n", info.Version)
			if !extended {
				return nil
			}
			if info.Module != "" {
				fmt.Fprintf(out, "Module:     %s\n", info.Module)
			}
			if info.Commit != "" {
				commit := info.Commit
				if info.Modified {
					commit += " (modified)"
				}
				fmt.Fprintf(out, "Commit:     %s\n", commit)
			}
			if info.BuildDate != "" {
				fmt.Fprintf(out, "Built:      %s\n", info.BuildDate)
			}
			fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Platform:   %s\n", info.Platform)
			return nil
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "Show detailed build information")
	addFormatFlag(cmd.Flags(), &format)
	return cmd
}
