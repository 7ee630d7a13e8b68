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
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valpere/scriptran/internal/apierr"
	"github.com/valpere/scriptran/internal/imagefile"
	"github.com/valpere/scriptran/internal/orchestrator"
	"github.com/valpere/scriptran/internal/render"
	"github.com/valpere/scriptran/internal/translator"
)

var (
	recognizeOutput string
	recognizeFormat string
	translateTo     string
	translateFrom   string
	recognizeNoMem  bool
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>",
	Short: "Recognize handwritten text in an image",
	Long: `Upload a JPEG or PNG image to the Computer Vision Read API and print the
recognized text once the job completes.

The job is polled up to --max-attempts times, --poll-delay apart. With
--translate-to the recognized text is then translated in the same run.`,
	Example: `  scriptran recognize note.jpg
  scriptran recognize scan.png --translate-to de --format html -o scan.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateRecognition(); err != nil {
			return err
		}

		format, err := render.ParseFormat(recognizeFormat)
		if err != nil {
			return err
		}

		req := translator.TranslateRequest{}
		var opts []orchestrator.Option
		if translateTo != "" {
			if err := cfg.ValidateTranslation(); err != nil {
				return err
			}
			if req.TargetLang, err = translator.NormalizeTarget(translateTo); err != nil {
				return apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
			}
			if req.SourceLang, err = translator.NormalizeSource(translateFrom); err != nil {
				return apierr.New(apierr.OpTranslate, apierr.KindInvalidInput, err)
			}
			svc, err := buildTranslator(cfg)
			if err != nil {
				return err
			}
			opts = append(opts, orchestrator.WithTranslator(svc))
		}

		image, err := imagefile.Load(args[0])
		if err != nil {
			return apierr.New(apierr.OpSubmit, apierr.KindInvalidInput, err)
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		submitter, poller := buildRecognition(cfg)
		opts = append(opts, orchestratorOptions(cfg, db, recognizeNoMem)...)
		opts = append(opts, orchestrator.WithRecognition(submitter, poller))
		orch := orchestrator.New(orchestrator.OrchestratorConfig{Timeout: cfg.OperationTimeout}, opts...)

		doc := render.Document{Title: filepath.Base(args[0])}

		if translateTo == "" {
			result, err := orch.Recognize(cmd.Context(), image)
			if err != nil {
				return err
			}
			doc.Add("Recognized Text", result.Text)
			return writeOutput(recognizeOutput, format, doc)
		}

		out, err := orch.RecognizeAndTranslate(cmd.Context(), image, req)
		if out == nil {
			return err
		}
		doc.Add("Recognized Text", out.Recognition.Text)
		if out.Translation != nil {
			doc.Add("Translated Text", out.Translation.TranslatedText)
		}
		// The recognized text is still shown when the translation step fails.
		return errors.Join(err, writeOutput(recognizeOutput, format, doc))
	},
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().StringVarP(&recognizeOutput, "output", "o", "", "Output file (default stdout)")
	recognizeCmd.Flags().StringVarP(&recognizeFormat, "format", "f", "text", "Output format: text, markdown, html")
	recognizeCmd.Flags().StringVarP(&translateTo, "translate-to", "t", "", "Also translate the recognized text into this language")
	recognizeCmd.Flags().StringVarP(&translateFrom, "from", "s", "auto", "Source language of the handwriting, for --translate-to")
	recognizeCmd.Flags().BoolVar(&recognizeNoMem, "no-cache", false, "Bypass the translation memory")

	recognizeCmd.Flags().Int("max-attempts", 0, "Maximum number of status polls (default from config)")
	recognizeCmd.Flags().Duration("poll-delay", 0, "Delay between status polls (default from config)")
	recognizeCmd.Flags().StringP("provider", "p", "azure", "Translation provider for --translate-to: azure, google")
	recognizeCmd.Flags().String("region", "", "Azure resource region (default from config)")
	recognizeCmd.Flags().StringP("credentials", "c", "", "Path to Google Cloud credentials")
	recognizeCmd.Flags().String("project", "", "Google Cloud project ID for quota")
	recognizeCmd.Flags().Duration("timeout", 0, "Overall timeout for the operation (default from config)")
	recognizeCmd.Flags().Bool("validate-output", false, "Warn when the translation is not in the target language")
}
