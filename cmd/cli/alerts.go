package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pricecomparator/price-service/internal/alerts"
	"github.com/pricecomparator/price-service/internal/catalog"
	"github.com/pricecomparator/price-service/internal/database"
)

var alertStoreFlag string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage price alerts in the configured alert store",
	Long: `Price alerts live in the store selected by alerts.backend. The memory backend
forgets alerts when the command exits; use sqlite or postgres from the CLI.`,
}

var alertsAddCmd = &cobra.Command{
	Use:     "add <productId> <targetPrice>",
	Short:   "Register a price alert",
	Example: `  price-comparator alerts add P001 9.60 --store kaufland`,
	Args:    cobra.ExactArgs(2),
	RunE:    runAlertsAdd,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered alerts",
	RunE:  runAlertsList,
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check alerts against every product snapshot",
	RunE:  runAlertsCheck,
}

func init() {
	alertsAddCmd.Flags().StringVar(&alertStoreFlag, "store", "", "Only alert for this store")
	alertsCmd.AddCommand(alertsAddCmd, alertsListCmd, alertsCheckCmd)
	rootCmd.AddCommand(alertsCmd)
}

// withAlerts runs fn against a service backed by the configured alert store
func withAlerts(cmd *cobra.Command, fn func(*catalog.Service) error) error {
	store, err := alerts.Open(cmd.Context(), alerts.Options{
		Backend:    alerts.Backend(cfg.Alerts.Backend),
		SQLitePath: cfg.Alerts.SQLitePath,
		Database: database.Config{
			URL:      cfg.Alerts.DatabaseURL,
			MaxConns: cfg.Alerts.MaxConnections,
			MinConns: cfg.Alerts.MinConnections,
		},
	})
	if err != nil {
		return err
	}
	defer database.Close()
	defer store.Close()

	if cfg.Alerts.Backend == string(alerts.BackendMemory) {
		logger.Warn().Msg("Alerts backend is memory; alerts are not kept between runs")
	}

	svc, err := newService(catalog.WithAlertStore(store))
	if err != nil {
		return err
	}
	return fn(svc)
}

func runAlertsAdd(cmd *cobra.Command, args []string) error {
	target, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid target price %q: %w", args[1], err)
	}
	return withAlerts(cmd, func(svc *catalog.Service) error {
		a, err := svc.RegisterAlert(cmd.Context(), args[0], target, alertStoreFlag)
		if err != nil {
			return err
		}
		if outputFmt == "json" {
			return printJSON(a)
		}
		fmt.Fprintf(stdout, "Alert %s registered for %s at %s RON\n", a.ID, a.ProductID, money(a.TargetPrice))
		return nil
	})
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	return withAlerts(cmd, func(svc *catalog.Service) error {
		registered, err := svc.Alerts(cmd.Context())
		if err != nil {
			return err
		}
		if outputFmt == "json" {
			return printJSON(registered)
		}
		rows := make([]string, len(registered))
		for i, a := range registered {
			store := a.Store
			if store == "" {
				store = "*"
			}
			rows[i] = fmt.Sprintf("%s\t%s\t%s\t%s\t%s", a.ID, a.ProductID, money(a.TargetPrice), store, a.CreatedAt.Format("2006-01-02 15:04"))
		}
		printTable("ID\tProduct\tTarget\tStore\tCreated", rows)
		return nil
	})
}

func runAlertsCheck(cmd *cobra.Command, args []string) error {
	return withAlerts(cmd, func(svc *catalog.Service) error {
		messages, err := svc.CheckAlerts(cmd.Context())
		if err != nil {
			return err
		}
		if outputFmt == "json" {
			return printJSON(messages)
		}
		if len(messages) == 0 {
			fmt.Fprintln(stdout, "No alerts triggered.")
			return nil
		}
		for _, m := range messages {
			fmt.Fprintln(stdout, m)
		}
		return nil
	})
}
