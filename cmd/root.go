package cmd

import (
	"fmt"
	"os"

	"github.com/0xbe1/liquidated/cmd/bootstrap"
	"github.com/0xbe1/liquidated/cmd/export"
	generate_certs "github.com/0xbe1/liquidated/cmd/generate-certs"
	"github.com/0xbe1/liquidated/cmd/query"
	"github.com/0xbe1/liquidated/cmd/schema"
	"github.com/0xbe1/liquidated/cmd/serve"
	"github.com/0xbe1/liquidated/cmd/watch"
	"github.com/0xbe1/liquidated/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "liquidated",
	Short: "GraphQL gateway and liquidation feed for the compound-ethereum subgraph",
	Long: `liquidated serves the Messari compound-ethereum subgraph through a cached,
validated GraphQL gateway with polling subscriptions, and follows new
liquidations into log, kafka or postgres sinks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Configure(logLevel, logFormat)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotenv)
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.liquidated/config.yaml)")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	rootCmd.AddCommand(
		serve.NewServeCmd(),
		query.NewQueryCmd(),
		schema.NewSchemaCmd(),
		watch.NewWatchCmd(),
		export.NewExportCmd(),
		bootstrap.NewInitCmd(),
		generate_certs.NewGenerateCertsCmd(),
	)
}

// loadDotenv reads .env from the working directory, if there is one.
func loadDotenv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env: %v", err)
	}
}
