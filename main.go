package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	contractx "github.com/moneylens/moneylens/adapter/contract"
	dispatchx "github.com/moneylens/moneylens/adapter/dispatch"
	formatx "github.com/moneylens/moneylens/adapter/format"
	progressx "github.com/moneylens/moneylens/adapter/progress"
	searchx "github.com/moneylens/moneylens/adapter/search"
	configx "github.com/moneylens/moneylens/pkg/config"
	_ "github.com/moneylens/moneylens/pkg/logger/autoload"
	openrouterx "github.com/moneylens/moneylens/pkg/openrouter"
	actualx "github.com/moneylens/moneylens/source/actualbudget"
	websearchx "github.com/moneylens/moneylens/source/websearch"
	ynabx "github.com/moneylens/moneylens/source/ynab"
)

type AppConfig struct {
	Source        string `envconfig:"SOURCE" default:"ynab"`
	ContextFormat string `envconfig:"CONTEXT_FORMAT" split_words:"true" default:"JSON"`
	Debug         string `envconfig:"DEBUG" default:"Off"`
	Citations     bool   `envconfig:"CITATIONS" default:"false"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("MONEYLENS")

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: moneylens [-env file] <query>")
		os.Exit(2)
	}

	mode, err := formatx.ParseMode(appCfg.ContextFormat)
	if err != nil {
		panic(err)
	}
	verbosity, err := progressx.ParseVerbosity(appCfg.Debug)
	if err != nil {
		panic(err)
	}

	completer := openrouterx.MustNew(*configx.MustNew[openrouterx.Config]("OPENROUTER"))
	ctx := context.Background()

	switch strings.ToLower(strings.TrimSpace(appCfg.Source)) {
	case "search":
		firecrawl := websearchx.MustNew(*configx.MustNew[websearchx.Config]("FIRECRAWL"))
		adapter := searchx.New(completer, firecrawl, searchx.Config{
			ResultCount: firecrawl.DefaultResultCount(),
			Verbosity:   verbosity,
			Citations:   appCfg.Citations,
		}, nil)
		fmt.Println(adapter.Run(ctx, query))
	case "actual":
		source := actualx.MustNew(*configx.MustNew[actualx.Config]("ACTUAL"))
		runFinance(ctx, completer, source, mode, verbosity, appCfg.Citations, query)
	case "ynab":
		source := ynabx.MustNew(*configx.MustNew[ynabx.Config]("YNAB"))
		runFinance(ctx, completer, source, mode, verbosity, appCfg.Citations, query)
	default:
		panic(fmt.Sprintf("unknown source %q", appCfg.Source))
	}
}

func runFinance(
	ctx context.Context,
	completer contractx.Completer,
	source contractx.FinanceSource,
	mode formatx.Mode,
	verbosity progressx.Verbosity,
	citations bool,
	query string,
) {
	dispatcher := dispatchx.New(completer, source, dispatchx.Config{
		Format:    mode,
		Verbosity: verbosity,
		Citations: citations,
	}, nil)
	fmt.Println(dispatcher.Run(ctx, query).Body)
	if dispatcher.Citations() {
		fmt.Printf("\nSource: %s\n", source.Vendor())
	}
}
