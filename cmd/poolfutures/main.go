// poolfutures runs a single LMSR prediction market from the command
// line: quote prices, place bets, inspect the bet log, and analyze
// payouts. The market definition (outcomes, liquidity, bet bounds)
// comes from the config file; all committed bets live in sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/hrjole/poolfutures/pkg/config"
	"github.com/hrjole/poolfutures/pkg/market"
	"github.com/hrjole/poolfutures/pkg/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	actor := flag.String("actor", "", "filter history by actor")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	setupLogger(cfg.Log.Level)

	store.EnsureMigrations(cfg.DB.MigrationsPath, cfg.DB.Path)
	s, err := store.NewSqliteStore(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("dbPath", cfg.DB.Path).Msg("open-store")
	}
	defer s.Close()

	ctx := context.Background()
	folded, err := s.Fold(ctx, cfg.Market.Outcomes)
	if err != nil {
		log.Fatal().Err(err).Msg("rebuild-quantities")
	}
	book, err := market.NewBook(cfg.Market.Outcomes, cfg.Market.Liquidity, folded, s)
	if err != nil {
		log.Fatal().Err(err).Msg("create-book")
	}
	if err := book.SetShareBounds(cfg.Market.MinShares, cfg.Market.MaxShares); err != nil {
		log.Fatal().Err(err).Msg("share-bounds")
	}

	switch flag.Arg(0) {
	case "", "prices":
		printPrices(book)
	case "bet":
		err = placeBet(ctx, book, flag.Args()[1:])
	case "history":
		err = printHistory(ctx, s, *actor)
	case "payouts":
		err = printPayouts(ctx, book, s)
	case "replay":
		err = replay(ctx, book, flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		fmt.Fprintln(os.Stderr, "usage: poolfutures [flags] prices|bet|history|payouts|replay")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func printPrices(book *market.Book) {
	quantities := book.Quantities()
	prices := book.Prices()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Outcome", "Shares", "Price")
	for _, o := range book.Outcomes() {
		table.Append(o, fmt.Sprintf("%d", quantities[o]), fmt.Sprintf("%.4f", prices[o]))
	}
	table.Render()
}

func placeBet(ctx context.Context, book *market.Book, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: poolfutures bet <actor> <outcome> <shares>")
	}
	shares, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("bad share count %q", args[2])
	}
	bet, _, err := book.Place(ctx, args[0], args[1], shares)
	if err != nil {
		return err
	}
	fmt.Printf("bet %s: %d shares of %s for %.4f\n", bet.ID, bet.Shares, bet.Outcome, bet.Cost)
	printPrices(book)
	return nil
}

func printHistory(ctx context.Context, s *store.SqliteStore, actor string) error {
	bets, err := s.Bets(ctx, actor)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Actor", "Outcome", "Shares", "Cost", "Placed")
	for _, bet := range bets {
		table.Append(bet.ID, bet.Actor, bet.Outcome,
			fmt.Sprintf("%d", bet.Shares), fmt.Sprintf("%.4f", bet.Cost),
			bet.PlacedAt.Format("2006-01-02 15:04:05"))
	}
	table.Render()
	return nil
}

func printPayouts(ctx context.Context, book *market.Book, s *store.SqliteStore) error {
	bets, err := s.Bets(ctx, "")
	if err != nil {
		return err
	}
	analysis, err := market.Analyze(book.Liquidity(), book.Outcomes(), bets)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Winner", "Total payout", "Bettors' net profit")
	for _, o := range book.Outcomes() {
		table.Append(o, fmt.Sprintf("%.2f", analysis.Payouts[o]),
			fmt.Sprintf("%.4f", analysis.Profits[o]))
	}
	table.Render()
	fmt.Printf("total collected: %.4f\n", analysis.TotalCost)
	fmt.Printf("market maker max loss: %.4f\n", analysis.MaxLoss)
	return nil
}

type replayBet struct {
	Actor   string `yaml:"actor"`
	Outcome string `yaml:"outcome"`
	Shares  int64  `yaml:"shares"`
}

// replay places a series of bets from a YAML file, printing each bet's
// cost as the curve moves.
func replay(ctx context.Context, book *market.Book, path string) error {
	if path == "" {
		return fmt.Errorf("usage: poolfutures replay <series.yaml>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var series []replayBet
	if err := yaml.Unmarshal(data, &series); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Actor", "Outcome", "Shares", "Cost")
	for i, rb := range series {
		bet, _, err := book.Place(ctx, rb.Actor, rb.Outcome, rb.Shares)
		if err != nil {
			return fmt.Errorf("bet %d (%s on %s): %w", i+1, rb.Actor, rb.Outcome, err)
		}
		table.Append(fmt.Sprintf("%d", i+1), bet.Actor, bet.Outcome,
			fmt.Sprintf("%d", bet.Shares), fmt.Sprintf("%.4f", bet.Cost))
	}
	table.Render()
	printPrices(book)
	return nil
}
