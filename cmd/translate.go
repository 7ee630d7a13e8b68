/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/orchestrator"
	"github.com/valpere/scriptran/internal/render"
	"github.com/valpere/scriptran/internal/translator"
)

var (
	inputFile  string
	inputText  string
	outputFile string
	sourceLang string
	targetLang string
	formatName string
	noCache    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate text into one of the supported languages",
	Long: `Translate text with a single request to the selected provider.

Text is taken from --text, from --input, or from stdin when --input is "-".

Providers:
  - azure    Azure AI Translator v3 (default, requires SCRIPTRAN_AZURE_KEY)
  - google   Google Cloud Translation (requires credentials)

Run "scriptran languages" for the list of target languages.`,
	Example: `  scriptran translate --to fr --text "Good morning"
  scriptran translate -t ja -i notes.txt -o notes.ja.md --format markdown`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateTranslation(); err != nil {
			return err
		}
		if inputFile != "" && inputFile != "-" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		format, err := render.ParseFormat(formatName)
		if err != nil {
			return err
		}
		target, err := translator.NormalizeTarget(targetLang)
		if err != nil {
			return apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
		}
		source, err := translator.NormalizeSource(sourceLang)
		if err != nil {
			return apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
		}

		text, err := readInput(cmd.InOrStdin())
		if err != nil {
			return err
		}

		svc, err := buildTranslator(cfg)
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		opts := append(orchestratorOptions(cfg, db, noCache), orchestrator.WithTranslator(svc))
		orch := orchestrator.New(orchestrator.OrchestratorConfig{Timeout: cfg.OperationTimeout}, opts...)

		res, err := orch.Translate(cmd.Context(), translator.TranslateRequest{
			Text:       text,
			SourceLang: source,
			TargetLang: target,
		})
		if err != nil {
			return err
		}

		doc := render.Document{Title: "Translation to " + translator.DisplayName(target)}
		if format != render.FormatText {
			doc.Add("Source Text", text)
			if res.DetectedLang != "" {
				doc.Add("Detected Language", translator.DisplayName(res.DetectedLang))
			}
		}
		doc.Add("Translated Text", res.TranslatedText)

		return writeOutput(outputFile, format, doc)
	},
}

func readInput(stdin io.Reader) (string, error) {
	switch {
	case inputText != "":
		return inputText, nil
	case inputFile == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("nothing to translate (use --text or --input)")
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&inputText, "text", "", "Text to translate")
	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (\"-\" for stdin)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "from", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "to", "t", "", "Target language code (required)")
	translateCmd.Flags().StringVarP(&formatName, "format", "f", "text", "Output format: text, markdown, html")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation memory")

	translateCmd.Flags().StringP("provider", "p", "azure", "Translation provider: azure, google")
	translateCmd.Flags().String("region", "", "Azure resource region (default from config)")
	translateCmd.Flags().StringP("credentials", "c", "", "Path to Google Cloud credentials")
	translateCmd.Flags().String("project", "", "Google Cloud project ID for quota")
	translateCmd.Flags().Duration("timeout", 0, "Overall timeout for the operation (default from config)")
	translateCmd.Flags().Bool("validate-output", false, "Warn when the translation is not in the target language")

	translateCmd.MarkFlagsMutuallyExclusive("text", "input")
	translateCmd.MarkFlagRequired("to")
}
