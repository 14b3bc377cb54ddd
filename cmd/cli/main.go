package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pricecomparator/price-service/config"
	"github.com/pricecomparator/price-service/internal/catalog"
	"github.com/pricecomparator/price-service/internal/optimizer"
	"github.com/pricecomparator/price-service/internal/snapshots"
	"github.com/pricecomparator/price-service/internal/storage"
	"github.com/pricecomparator/price-service/internal/types"
)

var (
	cfgFile   string
	dirFlag   string
	todayFlag string
	outputFmt string
	verbose   bool

	cfg    *config.Config
	logger *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "price-comparator",
	Short: "Query daily store price snapshots",
	Long: `A CLI over a directory of daily store snapshots ({store}_{yyyy-mm-dd}.csv and
{store}_discounts_{yyyy-mm-dd}.csv). It ranks products by value, splits shopping
lists across stores, reports discounts and exports results to xlsx.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "snapshot directory (overrides snapshots.dir)")
	rootCmd.PersistentFlags().StringVar(&todayFlag, "today", "", "evaluate discounts as of this date (yyyy-mm-dd, default today)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warnings only")
}

// persistentPreRun loads config and sets up logging before each command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if dirFlag != "" {
		cfg.Snapshots.Dir = dirFlag
	}

	if outputFmt != "table" && outputFmt != "json" {
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", outputFmt)
	}

	logger = initLogger()
	log.Logger = *logger
	return nil
}

// initLogger logs to stderr so stdout stays clean for results
func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if verbose && cfg != nil {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Str("service", "price-comparator-cli").Logger()
	return &l
}

// newService opens the snapshot directory and builds the query facade
func newService(extra ...catalog.Option) (*catalog.Service, error) {
	store, err := storage.NewLocalStorage(cfg.Snapshots.Dir)
	if err != nil {
		return nil, err
	}
	loader := snapshots.NewLoader(store, snapshots.LoaderConfig{
		LoadConcurrency: cfg.Snapshots.LoadConcurrency,
	}, nil)

	opts := []catalog.Option{
		catalog.WithOptimizerConfig(&optimizer.Config{MaxBasketItems: cfg.Optimizer.MaxBasketItems}),
	}
	if todayFlag != "" {
		today, err := types.ParseDate(todayFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --today: %w", err)
		}
		noon := today.Add(12 * time.Hour)
		opts = append(opts, catalog.WithClock(func() time.Time { return noon }))
	}
	return catalog.NewService(loader, append(opts, extra...)...), nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
