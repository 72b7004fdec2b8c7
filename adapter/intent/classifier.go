// Package intent asks the completion service which data path a free-text
// query should take and parses the reply into a typed decision.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/moneylens/moneylens/adapter/contract"
	promptx "github.com/moneylens/moneylens/adapter/prompt"
)

type Classifier struct {
	completer contractx.Completer
	vendor    string
	template  string
}

func NewClassifier(completer contractx.Completer, vendor string) *Classifier {
	return &Classifier{
		completer: completer,
		vendor:    vendor,
		template:  promptx.LoadPromptSet().Classifier,
	}
}

// Classify sends the query with the tool catalog to the completion service
// and parses the reply. A completion failure is a classification error the
// caller must surface; an unparseable reply is not, it yields the none
// decision.
func (c *Classifier) Classify(ctx context.Context, query string, catalog []contractx.ToolDescriptor, today time.Time) (contractx.Decision, error) {
	systemPrompt, err := c.buildSystemPrompt(catalog, today)
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %v", contractx.ErrClassification, err)
	}

	reply, err := c.completer.Complete(ctx, systemPrompt, "Query: "+query)
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %v", contractx.ErrClassification, err)
	}

	decision := ParseReply(reply, catalog)
	log.Debug().
		Str("vendor", c.vendor).
		Str("reply", reply).
		Str("kind", string(decision.Kind)).
		Str("start_date", decision.StartDate).
		Str("end_date", decision.EndDate).
		Msg("classified query")

	return decision, nil
}

func (c *Classifier) buildSystemPrompt(catalog []contractx.ToolDescriptor, today time.Time) (string, error) {
	tools, err := json.Marshal(catalog)
	if err != nil {
		return "", fmt.Errorf("marshal tool catalog: %v", err)
	}

	replacer := strings.NewReplacer(
		"{{VENDOR}}", c.vendor,
		"{{TOOLS}}", string(tools),
		"{{TODAY}}", today.Format(time.DateOnly),
	)
	return replacer.Replace(c.template), nil
}
