/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/patchwork/internal/ops"
	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/fulmenhq/patchwork/pkg/config"
	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/exitcode"
	"github.com/fulmenhq/patchwork/pkg/ignore"
	"github.com/fulmenhq/patchwork/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultAuditPass = "find-alerts"

type auditOptions struct {
	file        string
	include     []string
	samples     int
	workers     int
	noIgnore    bool
	failOnFound bool
	format      outputFormat
}

// auditSummary is the structured output of one audit invocation.
type auditSummary struct {
	Pass    string         `json:"pass" yaml:"pass"`
	Total   int            `json:"total" yaml:"total"`
	Reports []audit.Report `json:"reports" yaml:"reports"`
}

func newAuditCommand() *cobra.Command {
	opts := &auditOptions{}
	cmd := &cobra.Command{
		Use:   "audit [pass]",
		Short: "Count remaining deprecated call shapes (read-only)",
		Long: `Audit runs a read-only pass (default: find-alerts) and reports how many
occurrences of each probe remain, with a few samples for review.

Examples:
   patchwork audit                              # alert/confirm/prompt counts
   patchwork audit check-alerts                 # leftovers after migration
   patchwork audit --include 'src/**/*.tsx'     # audit several documents`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completePasses(true),
		Annotations:       map[string]string{groupAnnotation: string(ops.GroupAudit)},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultAuditPass
			if len(args) == 1 {
				name = args[0]
			}
			return runAudit(cmd, name, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Target document (default from target.path)")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Glob patterns of documents to audit (doublestar syntax)")
	cmd.Flags().IntVar(&opts.samples, "samples", 0, "Samples per probe; negative shows all (default from audit.samples)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Documents audited concurrently (default: CPU count)")
	cmd.Flags().BoolVar(&opts.noIgnore, "no-ignore", false, "Do not skip .gitignore/.patchworkignore matches in --include results")
	cmd.Flags().BoolVar(&opts.failOnFound, "fail-on-found", false, "Exit non-zero when any probe matches")
	addFormatFlag(cmd.Flags(), &opts.format)
	return cmd
}

func runAudit(cmd *cobra.Command, name string, opts *auditOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	pass, err := catalog.Lookup(name)
	if err != nil {
		return err
	}
	if !pass.ReadOnly() {
		return fmt.Errorf("%s is a %s pass; use 'patchwork run %s'", pass.Name, pass.Kind, pass.Name)
	}

	paths, err := auditTargets(opts, cfg)
	if err != nil {
		return err
	}

	aopts := audit.Options{Samples: cfg.Audit.Samples, Width: cfg.Audit.Width}
	if cmd.Flags().Changed("samples") {
		aopts.Samples = opts.samples
	}

	reports := make([]audit.Report, len(paths))
	g, gctx := errgroup.WithContext(cmd.Context())
	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			out, err := catalog.Execute(doc, pass, catalog.Options{Audit: aopts})
			if err != nil {
				return err
			}
			reports[i] = *out.Audit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary := auditSummary{Pass: pass.Name, Reports: reports}
	for _, r := range reports {
		summary.Total += r.Total()
	}
	logger.Debug("Audit complete", logger.String("pass", pass.Name),
		logger.Int("documents", len(reports)), logger.Int("total", summary.Total))

	out := cmd.OutOrStdout()
	if opts.format != formatText {
		if err := writeStructured(out, opts.format, summary); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printAudit(out, r)
		}
		if len(reports) > 1 {
			fmt.Fprintf(out, "Total: %d in %d documents\n", summary.Total, len(reports))
		}
	}

	if opts.failOnFound && summary.Total > 0 {
		return exitcode.Wrap(exitcode.GeneralError, fmt.Errorf("%s found %d occurrences", pass.Name, summary.Total))
	}
	return nil
}

// auditTargets resolves --include globs, falling back to --file or the
// configured target.
func auditTargets(opts *auditOptions, cfg *config.Config) ([]string, error) {
	if len(opts.include) == 0 {
		if opts.file != "" {
			return []string{opts.file}, nil
		}
		return []string{cfg.Target.Path}, nil
	}

	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range opts.include {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, exitcode.Wrap(exitcode.ConfigError, fmt.Errorf("invalid include pattern %q", pattern))
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", document.ErrUnreadable, pattern, err)
		}
		if !opts.noIgnore {
			base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
			matcher, err := ignore.NewMatcher(filepath.FromSlash(base))
			if err != nil {
				return nil, err
			}
			matches = matcher.Filter(matches)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no documents match %v", document.ErrUnreadable, opts.include)
	}
	sort.Strings(paths)
	return paths, nil
}
