package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fulmenhq/patchwork/internal/ops"
	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/spf13/cobra"
)

// passInfo is the listing entry of one pass.
type passInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Description string   `json:"description" yaml:"description"`
	Rules       []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func describePass(p catalog.Pass) passInfo {
	info := passInfo{Name: p.Name, Kind: string(p.Kind), Description: p.Description}
	switch {
	case p.Rewrite != nil:
		for _, r := range p.Rewrite.Rules() {
			info.Rules = append(info.Rules, r.Name())
		}
	case p.Excise != nil:
		for _, b := range p.Excise.Blocks {
			info.Rules = append(info.Rules, b.Name)
		}
		for _, l := range p.Excise.Lines {
			info.Rules = append(info.Rules, l.Name)
		}
	case len(p.Probes) > 0:
		for _, pr := range p.Probes {
			info.Rules = append(info.Rules, pr.Name)
		}
	}
	return info
}

func newPassesCommand() *cobra.Command {
	var (
		format  outputFormat
		verbose bool
	)
	cmd := &cobra.Command{
		Use:         "passes",
		Short:       "List the available passes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{groupAnnotation: string(ops.GroupAudit)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var infos []passInfo
			for _, p := range catalog.All() {
				infos = append(infos, describePass(p))
			}
			if format != formatText {
				return writeStructured(cmd.OutOrStdout(), format, infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Kind, info.Description)
				if verbose {
					for _, r := range info.Rules {
						fmt.Fprintf(tw, "\t\t- %s\n", r)
					}
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the rules of each pass")
	addFormatFlag(cmd.Flags(), &format)
	return cmd
}
