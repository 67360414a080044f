package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/truthylabs/truthy/internal/detector"
	"github.com/truthylabs/truthy/internal/display"
	"github.com/truthylabs/truthy/internal/model"
	"github.com/truthylabs/truthy/internal/samples"
	"github.com/truthylabs/truthy/internal/taxonomy"
)

var (
	flagSamplesParallel int
	flagSamplesJSON     bool
	flagSamplesOnly     string
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Run the built-in sample cases through the pipeline",
	Long: `Evaluate the bundled sample question/answer cases and report how the
configured classifier chain scores each one. Useful as a smoke test of a
provider setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := buildDetector()
		if err != nil {
			return err
		}

		cases := samples.All()
		if flagSamplesOnly != "" {
			var filtered []samples.Case
			for _, c := range cases {
				if strings.Contains(c.Name, flagSamplesOnly) {
					filtered = append(filtered, c)
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("no sample case matches %q", flagSamplesOnly)
			}
			cases = filtered
		}
		results := make([]model.Result, len(cases))
		errs := make([]error, len(cases))

		parallel := flagSamplesParallel
		if parallel < 1 {
			parallel = 1
		}
		if parallel > len(cases) {
			parallel = len(cases)
		}

		// Evaluate cases with bounded parallelism.
		var wg sync.WaitGroup
		sem := make(chan struct{}, parallel)
		for i, c := range cases {
			wg.Add(1)
			go func(idx int, c samples.Case) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				results[idx], errs[idx] = d.Detect(ctx, c.Request, detector.Options{Credential: cfg.APIKey})
			}(i, c)
		}
		wg.Wait()

		if flagSamplesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		passed := 0
		for i, c := range cases {
			if errs[i] != nil {
				fmt.Printf("✗ %-28s error: %v\n", c.Name, errs[i])
				continue
			}
			ok := sampleMatches(c, results[i])
			if ok {
				passed++
			}
			fmt.Println(display.RenderCompact(c.Name, results[i], ok))
		}
		fmt.Printf("\n%d/%d samples matched expectations\n", passed, len(cases))
		return nil
	},
}

// sampleMatches reports whether a result agrees with a case's expectations.
// Expected taxonomy codes are advisory: any one of them counts as a match.
func sampleMatches(c samples.Case, res model.Result) bool {
	if res.Undetermined || res.IsHallucinated != c.WantHallucinated {
		return false
	}
	if len(c.WantTypes) == 0 {
		return true
	}
	got := taxonomy.Strings(res.Types)
	for _, want := range c.WantTypes {
		for _, g := range got {
			if g == want {
				return true
			}
		}
	}
	return false
}

func init() {
	samplesCmd.Flags().IntVar(&flagSamplesParallel, "parallel", 2, "number of cases to evaluate concurrently")
	samplesCmd.Flags().StringVar(&flagSamplesOnly, "only", "", "run only cases whose name contains this substring")
	samplesCmd.Flags().BoolVar(&flagSamplesJSON, "json", false, "emit raw JSON results")
	rootCmd.AddCommand(samplesCmd)
}
