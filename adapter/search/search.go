// Package search is the web-search adapter: it distills the user's prompt
// into a search query via the completion service, runs a search-and-scrape,
// and concatenates the cleaned page contents for model context. It follows
// the same classification-then-fetch pattern as the finance dispatcher,
// minus the date logic.
package search

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/moneylens/moneylens/adapter/contract"
	progressx "github.com/moneylens/moneylens/adapter/progress"
	promptx "github.com/moneylens/moneylens/adapter/prompt"
)

const resultSeparator = "\n\n---\n\n"

type Config struct {
	ResultCount int
	Verbosity   progressx.Verbosity
	Citations   bool
}

type Adapter struct {
	completer contractx.Completer
	source    contractx.SearchSource
	conf      Config
	sink      contractx.ProgressSink
	template  string
}

func New(completer contractx.Completer, source contractx.SearchSource, conf Config, sink contractx.ProgressSink) *Adapter {
	return &Adapter{
		completer: completer,
		source:    source,
		conf:      conf,
		sink:      sink,
		template:  promptx.LoadPromptSet().SearchQuery,
	}
}

// Run returns the scraped content as markdown sections separated by "---",
// or a message describing what went wrong. Errors never escape; every path
// emits a terminal progress event.
func (a *Adapter) Run(ctx context.Context, query string) string {
	reporter := progressx.NewReporter("websearch", a.sink, a.conf.Verbosity)

	reporter.Emit("Generating search query...", progressx.StatusInProgress, false, nil)

	searchQuery, err := a.completer.Complete(ctx, a.template, "User's prompt: "+query)
	if err != nil {
		msg := "Error occurred while generating search query."
		reporter.Emit(msg, progressx.StatusError, true, err)
		return msg
	}
	searchQuery = strings.Trim(strings.TrimSpace(searchQuery), `"`)
	if searchQuery == "" {
		searchQuery = query
	}
	reporter.Dump("search_query", searchQuery)

	reporter.Emit(
		fmt.Sprintf("Searching the web for %q...", searchQuery),
		progressx.StatusInProgress, false, nil,
	)

	results, err := a.source.Search(ctx, searchQuery, a.conf.ResultCount)
	if err != nil {
		msg := "Web search fetch failed."
		reporter.Emit(msg, progressx.StatusError, true, err)
		return fmt.Sprintf("%s Error: %v", msg, err)
	}
	if len(results) == 0 {
		msg := "No search results found."
		reporter.Emit(msg, progressx.StatusError, true, contractx.ErrNoMatch)
		return msg
	}

	sections := make([]string, 0, len(results))
	for _, result := range results {
		sections = append(sections, fmt.Sprintf(
			"## Source: [%s](%s)\n\n%s",
			result.Title, result.URL, CleanMarkdown(result.Markdown),
		))
	}
	content := strings.Join(sections, resultSeparator)
	reporter.Dump("scraped_content", content)

	reporter.Emit("Web content scraped successfully", progressx.StatusComplete, true, nil)
	return content
}
