package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/truthylabs/truthy/internal/detector"
	"github.com/truthylabs/truthy/internal/display"
	"github.com/truthylabs/truthy/internal/model"
)

var (
	flagDetectParagraph string
	flagDetectQuestion  string
	flagDetectAnswer    string
	flagDetectJSON      bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Check one answer for hallucinations",
	Long: `Classify a single question/answer pair.

When --paragraph is given and long enough it is the sole source of truth;
otherwise evidence is fetched from the web before classification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDetectQuestion == "" || flagDetectAnswer == "" {
			return fmt.Errorf("--question and --answer are required")
		}

		d, err := buildDetector()
		if err != nil {
			return err
		}

		req := model.Request{
			Paragraph: flagDetectParagraph,
			Question:  flagDetectQuestion,
			Answer:    flagDetectAnswer,
		}
		res, err := d.Detect(cmd.Context(), req, detector.Options{Credential: cfg.APIKey})
		if err != nil {
			return err
		}

		if flagDetectJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Println(display.Render(res))
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&flagDetectParagraph, "paragraph", "", "source paragraph the answer should be faithful to")
	detectCmd.Flags().StringVar(&flagDetectQuestion, "question", "", "the question that was asked")
	detectCmd.Flags().StringVar(&flagDetectAnswer, "answer", "", "the answer to check")
	detectCmd.Flags().BoolVar(&flagDetectJSON, "json", false, "emit the raw JSON result")
	rootCmd.AddCommand(detectCmd)
}
