package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/reportcheck-cli/internal/dataset"
	"github.com/KaramelBytes/reportcheck-cli/internal/logging"
	"github.com/KaramelBytes/reportcheck-cli/internal/utils"
	"github.com/KaramelBytes/reportcheck-cli/internal/validate"
)

var (
	valKey        string
	valQuantity   string
	valPrice      string
	valRevenue    string
	valDelimiter  string
	valMaxRows    int
	valOutputPath string
	valJSON       bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Run all data-quality checks against a CSV report export",
	Example: `  reportcheck validate report.csv --key order_id --quantity qty --price unit_price --revenue revenue
  reportcheck validate report.csv --key id --quantity qty --price price --revenue total --json
  reportcheck validate report.csv --key id --quantity qty --price price --revenue total -o findings.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := runChecks(args[0], valDelimiter, valMaxRows, validate.Selections{
			Key:      valKey,
			Quantity: valQuantity,
			Price:    valPrice,
			Revenue:  valRevenue,
		})
		if err != nil {
			return err
		}

		var out []byte
		if valJSON {
			out, err = utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}

		if valOutputPath != "" {
			if err := utils.SafeWriteFile(valOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote findings to %s\n", valOutputPath)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

// runChecks loads the dataset and computes every finding for the given
// column selections. Findings are recomputed in full on every invocation.
func runChecks(path, delimiter string, maxRows int, sel validate.Selections) (*validate.Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	opt := dataset.DefaultOptions()
	if maxRows > 0 {
		opt.MaxRows = maxRows
	}
	switch strings.ToLower(strings.TrimSpace(delimiter)) {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	rows, cols := ds.Shape()
	logging.Debugf("loaded %s: %d rows, %d columns", ds.Name, rows, cols)

	return validate.Run(ds, sel)
}

func addSelectionFlags(cmd *cobra.Command, key, qty, price, rev *string) {
	cmd.Flags().StringVarP(key, "key", "k", "", "column expected to be unique (primary key)")
	cmd.Flags().StringVar(qty, "quantity", "", "quantity column for the aggregation check")
	cmd.Flags().StringVar(price, "price", "", "unit price column for the aggregation check")
	cmd.Flags().StringVar(rev, "revenue", "", "reported revenue column for the aggregation check")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("revenue")
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addSelectionFlags(validateCmd, &valKey, &valQuantity, &valPrice, &valRevenue)
	validateCmd.Flags().StringVar(&valDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	validateCmd.Flags().IntVar(&valMaxRows, "max-rows", 0, "maximum rows to load (0 = default cap)")
	validateCmd.Flags().StringVarP(&valOutputPath, "output", "o", "", "optional path to write the findings report")
	validateCmd.Flags().BoolVar(&valJSON, "json", false, "emit findings as JSON instead of Markdown")
}
