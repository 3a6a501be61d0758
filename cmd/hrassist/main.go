package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillsys/hrassist/pkg/config"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/presenter"
)

// cfg is resolved once in the root pre-run and passed into constructors
// from there.
var (
	cfg             *config.Config
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "hrassist",
	Short: "HR assistant service and skill authoring tool",
	Long: `hrassist serves the HR assistant API: employee and candidate search,
CV parsing, a streaming chat endpoint and a file-backed skill tree mirrored
to a GitHub repository. The same operations are available from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if err := logger.Configure(loaded.Log.Level, loaded.Log.Format); err != nil {
			return err
		}
		cfg = loaded

		shutdown, err := initTracing(cmd.Context(), cfg.Tracing)
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return nil
		}
		shutdownTracing = shutdown
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "fmt", "Log format (fmt or json)")
	flags.String("skills-dir", "./.claude/skills", "Directory holding the skill tree")
	flags.String("db", "./hrassist.db", "Path of the HR database")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
	viper.BindPFlag("skills.dir", flags.Lookup("skills-dir"))
	viper.BindPFlag("database.path", flags.Lookup("db"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(cvCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := config.Init(viper.GetViper()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)

	if shutdownTracing != nil {
		if flushErr := shutdownTracing(context.Background()); flushErr != nil {
			logger.G(ctx).WithError(flushErr).Warn("failed to flush traces")
		}
	}

	if err != nil {
		presenter.Error(err, "")
		cancel()
		os.Exit(1)
	}
}
