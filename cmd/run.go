/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/patchwork/internal/gitctx"
	"github.com/fulmenhq/patchwork/internal/ops"
	"github.com/fulmenhq/patchwork/pkg/audit"
	"github.com/fulmenhq/patchwork/pkg/catalog"
	"github.com/fulmenhq/patchwork/pkg/config"
	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/exitcode"
	"github.com/fulmenhq/patchwork/pkg/logger"
	"github.com/fulmenhq/patchwork/pkg/preview"
	"github.com/spf13/cobra"
)

type runOptions struct {
	file   string
	diff   bool
	format outputFormat
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <pass>",
		Short: "Apply one pass to the target document",
		Long: `Run loads the target document, applies one pass in memory and writes
the whole document back once. Passes are idempotent: running one twice
leaves the document unchanged the second time.

Use --no-op to report what would change without writing.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePasses(false),
		Annotations:       map[string]string{groupAnnotation: string(ops.GroupEdit)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPass(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Target document (default from target.path)")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Print a line diff of the change")
	addFormatFlag(cmd.Flags(), &opts.format)
	return cmd
}

func runPass(cmd *cobra.Command, name string, opts *runOptions) error {
	noOp, _ := cmd.Flags().GetBool("no-op")
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	pass, err := catalog.Lookup(name)
	if err != nil {
		return err
	}

	path := opts.file
	if path == "" {
		path = cfg.Target.Path
	}
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("Loaded document", logger.String("path", doc.Path), logger.String("pass", pass.Name))

	outcome, err := catalog.Execute(doc, pass, catalog.Options{
		Lookback: cfg.Insert.Lookback,
		Audit:    audit.Options{Samples: cfg.Audit.Samples, Width: cfg.Audit.Width},
	})
	if err != nil {
		return err
	}
	if outcome.Excise != nil {
		for _, s := range outcome.Excise.Unterminated() {
			logger.Warn("Block has no terminator; removed through end of document",
				logger.String("rule", s.Rule), logger.Int("start", s.Start))
		}
	}
	if outcome.Rewrite != nil {
		for _, r := range outcome.Rewrite.Failed() {
			logger.Warn("Rule failed; text left unchanged", logger.String("rule", r.Rule), logger.String("error", r.Error))
		}
	}

	if opts.format != formatText {
		if err := writeStructured(out, opts.format, outcome); err != nil {
			return err
		}
	} else {
		printOutcome(out, pass, outcome)
	}

	if opts.diff || cfg.Output.Diff || (noOp && outcome.Changed) {
		d := preview.Compute(doc.Path, doc.Original(), doc.Text, cfg.Output.Context)
		w := out
		if opts.format != formatText {
			w = cmd.ErrOrStderr()
		}
		if err := preview.Write(w, d); err != nil {
			return err
		}
	}

	if !outcome.Changed {
		finish(cmd, opts, "No changes.")
		return nil
	}
	if noOp {
		logger.Info("No-op mode; document not written", logger.String("path", doc.Path))
		finish(cmd, opts, "No changes written (no-op).")
		return nil
	}

	warnIfDirty(doc.Path)
	if err := doc.Save(); err != nil {
		return exitcode.Wrap(exitcode.FileSystemError, err)
	}
	finish(cmd, opts, "Done.")
	return nil
}

// finish prints the terminal status line of a text report.
func finish(cmd *cobra.Command, opts *runOptions, status string) {
	if opts.format == formatText {
		fmt.Fprintln(cmd.OutOrStdout(), status)
	}
}

// warnIfDirty logs when the document carries edits git could not restore.
func warnIfDirty(path string) {
	state, err := gitctx.Inspect(path)
	if err != nil {
		logger.Debug("Git state unavailable", logger.Err(err))
		return
	}
	if state == nil || state.Recoverable() {
		return
	}
	if !state.Tracked {
		logger.Warn("Document is not tracked by git; the previous content will not be recoverable",
			logger.String("path", state.RelPath))
		return
	}
	logger.Warn("Document has uncommitted changes; overwriting in place",
		logger.String("path", state.RelPath), logger.String("branch", state.Branch))
}

// completePasses offers pass names for shell completion.
func completePasses(auditOnly bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		for _, p := range catalog.All() {
			if auditOnly && !p.ReadOnly() {
				continue
			}
			names = append(names, p.Name+"\t"+p.Description)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
