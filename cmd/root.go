package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rootsektor/ripe-api-query-tool/internal/output"
	"github.com/rootsektor/ripe-api-query-tool/internal/pipeline"
	"github.com/rootsektor/ripe-api-query-tool/internal/ripedb"
)

// version is overridden at release time via -ldflags.
var version = "dev"

var (
	cfgFile    string
	query      string
	filter     string
	separator  string
	outputFile string
	formatName string
	tableFlag  bool
	grepFlag   bool
	cidrFlag   bool
	uniqueFlag bool
	verbose    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:     "ripeq",
	Short:   "Query the RIPE database API, filter fields and format the results",
	Version: version,
	Long: `ripeq sends a free-text query to the RIPE database API, splits the
response into records, and prints selected fields in plain, table,
grepable, JSON or XML form. Inetnum ranges can be converted to CIDR
blocks and duplicate records removed on the way.`,
	Example: `  ripeq -q example.org -f netname,inetnum
  ripeq -q example.org -f inetnum --cidr --unique --grepable
  ripeq -q example.org -f netname,inetnum -t json -o targets.json`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		switch {
		case debug:
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case verbose:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		default:
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate the output mode before anything goes on the wire.
		mode, err := resolveMode()
		if err != nil {
			return err
		}

		cfg := pipeline.Config{
			Query:       query,
			Filter:      parseFilter(filter),
			Separator:   viper.GetString("separator"),
			Mode:        mode,
			ConvertCIDR: cidrFlag,
			Unique:      uniqueFlag,
			OutputFile:  outputFile,
		}

		client := ripedb.NewClient(viper.GetString("base-url"), viper.GetDuration("timeout"))
		return pipeline.Run(cmd.Context(), cfg, client, os.Stdout)
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVarP(&query, "query", "q", "", "search string for the RIPE API query")
	rootCmd.Flags().StringVarP(&filter, "filter", "f", "", "comma-separated fields to extract (e.g. inetnum,netname,descr,country)")
	rootCmd.Flags().StringVarP(&separator, "separator", "s", ",", "field separator for grepable and filtered plain output")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to this file instead of stdout")
	rootCmd.Flags().StringVarP(&formatName, "format", "t", "plain", "output format: plain, table, grepable, json or xml")
	rootCmd.Flags().BoolVarP(&tableFlag, "table", "T", false, "shorthand for --format table")
	rootCmd.Flags().BoolVarP(&grepFlag, "grepable", "g", false, "shorthand for --format grepable")
	rootCmd.Flags().BoolVarP(&cidrFlag, "cidr", "c", false, "convert inetnum ranges to CIDR notation")
	rootCmd.Flags().BoolVarP(&uniqueFlag, "unique", "u", false, "remove duplicate records from the output")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ripeq.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debugging output")
	rootCmd.PersistentFlags().String("base-url", ripedb.DefaultBaseURL, "registry API base URL")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "HTTP timeout for API queries")

	_ = rootCmd.MarkFlagRequired("query")

	_ = viper.BindPFlag("base-url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("separator", rootCmd.Flags().Lookup("separator"))
}

// initConfig reads the optional config file and RIPEQ_* environment
// variables. A missing config file is fine; flags always win.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ripeq")
	}

	viper.SetEnvPrefix("ripeq")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolveMode collapses --format and the --table/--grepable shorthands
// into one output mode, rejecting conflicting selections.
func resolveMode() (output.Mode, error) {
	name := formatName
	switch {
	case tableFlag && grepFlag:
		return 0, errors.New("--table and --grepable are mutually exclusive")
	case tableFlag:
		if name != "plain" {
			return 0, fmt.Errorf("--table conflicts with --format %s", name)
		}
		name = "table"
	case grepFlag:
		if name != "plain" {
			return 0, fmt.Errorf("--grepable conflicts with --format %s", name)
		}
		name = "grepable"
	}
	return output.ParseMode(name)
}

// parseFilter splits the --filter list, trimming and lowercasing each
// field name the way the registry response keys are normalized.
func parseFilter(s string) []string {
	if s == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
