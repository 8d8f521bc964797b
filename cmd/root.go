/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/patchwork/internal/ops"
	"github.com/fulmenhq/patchwork/pkg/buildinfo"
	"github.com/fulmenhq/patchwork/pkg/config"
	"github.com/fulmenhq/patchwork/pkg/document"
	"github.com/fulmenhq/patchwork/pkg/exitcode"
	"github.com/fulmenhq/patchwork/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patchwork",
		Short: "One-shot rewriting passes for the generated front-end document",
		Long: `Patchwork applies hand-curated, idempotent edit passes to a single
generated markup/script document: script insertion, block removal,
dialog-call rewrites and read-only audits.

Examples:
   patchwork passes                       # List the available passes
   patchwork run add-axios                # Insert the axios script tag
   patchwork run replace-alerts-v2 --diff # Rewrite dialogs and show the change
   patchwork --no-op run fix-alerts       # Preview without writing
   patchwork audit check-alerts           # Count what is left to migrate`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Run passes without writing the document (assessment mode)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("patchwork {{.Version}}\n")

	// Grouped help by command group (Edit → Audit → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		for _, group := range ops.Groups {
			cmd.Printf("%s:\n", group.Title())
			for _, c := range reg.GetCommandsByGroup(group) {
				cmd.Printf("  %-12s %s\n", c.Name, c.Description)
			}
			cmd.Println()
		}
		cmd.Println("Flags:")
		cmd.Print(cmd.LocalFlags().FlagUsages())
	})

	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and returns the process exit code.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitcode.Success
	}
	logger.Error("Command execution failed", logger.Err(err))
	return exitCodeFor(err)
}

// exitCodeFor maps an error returned by a command to a process exit code.
func exitCodeFor(err error) int {
	var exitErr *exitcode.ExitError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, document.ErrUnreadable), errors.Is(err, document.ErrPathTraversal):
		return exitcode.FileSystemError
	case errors.Is(err, document.ErrNotText):
		return exitcode.UnsupportedFormat
	case errors.Is(err, config.ErrInvalid):
		return exitcode.ConfigError
	default:
		return exitcode.GeneralError
	}
}

// groupAnnotation carries a command's ops group on the cobra command.
const groupAnnotation = "ops.group"

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newPassesCommand())
	cmd.AddCommand(newAuditCommand())
	cmd.AddCommand(newVersionCommand())
}

func init() {
	registerSubcommands(rootCmd)
	for _, c := range rootCmd.Commands() {
		group := ops.CommandGroup(c.Annotations[groupAnnotation])
		if err := ops.RegisterCommand(c.Name(), group, c, c.Short); err != nil {
			panic(fmt.Sprintf("Failed to register %s command: %v", c.Name(), err))
		}
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	cfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: "patchwork",
		NoOp:      noOp,
	}
	if err := logger.Initialize(cfg); err != nil {
		return exitcode.Wrap(exitcode.ConfigError, err)
	}
	logger.SetOutput(cmd.ErrOrStderr())
	return nil
}
