package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"rallytimesbot/pkg/config"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/pubsub"
	"rallytimesbot/pkg/records"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var Version = "dev"

func main() {
	config.LoadDotEnv(".env")

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err))
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rallytimes",
		Short:         "Rally stage times: HTTP API, Telegram bot and command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().String("data-file", "", "JSON file with the records (DATA_FILE)")
	rootCmd.PersistentFlags().String("store-backend", "", "Record store: file or sqlite (STORE_BACKEND)")
	rootCmd.PersistentFlags().String("sqlite-path", "", "SQLite database of the sqlite store (SQLITE_PATH)")

	serve := serveCmd()
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(resetCmd())

	// without a subcommand the program serves
	rootCmd.Flags().AddFlagSet(serve.Flags())
	rootCmd.RunE = serve.RunE

	return rootCmd
}

// openStore builds the record manager described by cfg. The returned func
// releases the backend.
func openStore(cfg config.Config, events *pubsub.PubSub[model.RecordEvent]) (*records.Manager, func(), error) {
	policy := records.Policy{AllowNegativePenalties: cfg.AllowNegativePenalties}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		backend, err := records.NewSQLiteBackend(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("records stored in sqlite database %s\n", cfg.SQLitePath)
		return records.NewManager(backend, policy, events), func() { backend.Close() }, nil
	default:
		log.Printf("records stored in %s\n", cfg.DataFile)
		return records.NewManager(records.NewFileBackend(cfg.DataFile), policy, events), func() {}, nil
	}
}

func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	return config.Load(fs)
}
