package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportcheck-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/reportcheck-cli/internal/config"
	"github.com/KaramelBytes/reportcheck-cli/internal/prompt"
	"github.com/KaramelBytes/reportcheck-cli/internal/qa"
	"github.com/KaramelBytes/reportcheck-cli/internal/validate"
)

var (
	askKey        string
	askQuantity   string
	askPrice      string
	askRevenue    string
	askDelimiter  string
	askMaxRows    int
	askModel      string
	askTemp       float64
	askMaxTokens  int
	askTimeoutSec int
	askDryRun     bool
	askShowCtx    bool
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Ask a question about a report, answered from its validation findings",
	Long: `ask runs every data-quality check against the report, renders the
findings into a bounded context block, and sends (system instruction,
context, question) to the completion service at low temperature. The answer
is printed verbatim.`,
	Example: `  reportcheck ask report.csv "why is revenue inflated?" --key order_id --quantity qty --price unit_price --revenue revenue
  reportcheck ask report.csv "is the primary key unique?" -k id --quantity qty --price price --revenue total --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		question := strings.Join(args[1:], " ")

		rep, err := runChecks(path, askDelimiter, askMaxRows, validate.Selections{
			Key:      askKey,
			Quantity: askQuantity,
			Price:    askPrice,
			Revenue:  askRevenue,
		})
		if err != nil {
			return err
		}

		reportContext := prompt.BuildContext(rep, contextLimit())
		if askDryRun || askShowCtx {
			fmt.Println(reportContext)
			if askDryRun {
				return nil
			}
		}

		// Credential and question guards run before any network call.
		apiKey, ok := cfgpkg.ResolveAPIKey(cfg)
		if !ok {
			return errors.New("OpenAI API key not configured: run 'reportcheck config set api_key <key>' or export OPENAI_API_KEY")
		}
		if strings.TrimSpace(question) == "" {
			return qa.ErrEmptyQuestion
		}

		client := newAIClient(apiKey)
		answerer := qa.NewAnswerer(client, askModelName(), askTemperature(), askTokenBudget())

		ctx := cmd.Context()
		if askTimeoutSec > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(askTimeoutSec)*time.Second)
			defer cancel()
		}
		answer, err := answerer.Ask(ctx, reportContext, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func newAIClient(apiKey string) *ai.Client {
	if cfg == nil {
		return ai.NewOpenAIClient(apiKey)
	}
	return ai.NewClient(
		apiKey,
		time.Duration(cfg.HTTPTimeoutSec)*time.Second,
		cfg.RetryMaxAttempts,
		time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond,
	)
}

func askModelName() string {
	if askModel != "" {
		return askModel
	}
	if cfg != nil && cfg.DefaultModel != "" {
		return cfg.DefaultModel
	}
	return "gpt-4o-mini"
}

func askTemperature() float64 {
	if askTemp > 0 {
		return askTemp
	}
	if cfg != nil && cfg.Temperature > 0 {
		return cfg.Temperature
	}
	return qa.DefaultTemperature
}

func askTokenBudget() int {
	if askMaxTokens > 0 {
		return askMaxTokens
	}
	if cfg != nil {
		return cfg.MaxTokens
	}
	return 0
}

func contextLimit() int {
	if cfg != nil && cfg.ContextMaxTokens > 0 {
		return cfg.ContextMaxTokens
	}
	return 0
}

func init() {
	rootCmd.AddCommand(askCmd)
	addSelectionFlags(askCmd, &askKey, &askQuantity, &askPrice, &askRevenue)
	askCmd.Flags().StringVar(&askDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	askCmd.Flags().IntVar(&askMaxRows, "max-rows", 0, "maximum rows to load (0 = default cap)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "model to query (default from config)")
	askCmd.Flags().Float64Var(&askTemp, "temperature", 0, "sampling temperature (default 0.2)")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "completion token budget (default from config)")
	askCmd.Flags().IntVar(&askTimeoutSec, "timeout", 0, "overall timeout in seconds for the completion call")
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "print the report context and exit without calling the API")
	askCmd.Flags().BoolVar(&askShowCtx, "print-context", false, "print the report context before the answer")
}
