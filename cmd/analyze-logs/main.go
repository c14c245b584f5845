package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vitos/marketpulse/internal/infrastructure/storage"
)

func main() {
	dbPath := flag.String("db", "marketpulse.db", "path to the audit sink sqlite file")
	symbol := flag.String("symbol", "", "restrict output to this symbol (empty lists alerts for all symbols and no trades)")
	limit := flag.Int("limit", 20, "max rows per table")
	flag.Parse()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Printf("failed to open audit sink: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	alerts, err := store.RecentAlerts(ctx, *symbol, *limit)
	if err != nil {
		fmt.Printf("failed to list alerts: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d alerts:\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("- [%s] %s %s trigger_value=%.4f price=%.4f at=%d\n",
			a.Symbol, a.TriggerType, a.Message, a.TriggerValue, a.Price, a.EventMs)
	}

	if *symbol == "" {
		return
	}

	trades, err := store.RecentTrades(ctx, *symbol, *limit)
	if err != nil {
		fmt.Printf("failed to list trades: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nFound %d trades for %s:\n", len(trades), *symbol)
	for _, t := range trades {
		fmt.Printf("- price=%s volume=%s at=%d\n", t.Price, t.Volume, t.EventMs)
	}
}
