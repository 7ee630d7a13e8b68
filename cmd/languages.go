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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/scriptran/internal/translator"
)

var checkProvider bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported target languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := translator.Languages()

		if checkProvider {
			if err := cfg.ValidateTranslation(); err != nil {
				return err
			}
			svc, err := buildTranslator(cfg)
			if err != nil {
				return err
			}
			if err := svc.IsAvailable(cmd.Context()); err != nil {
				return fmt.Errorf("%s is not reachable: %w", svc.Name(), err)
			}
			if codes, err = svc.SupportedLanguages(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Provider %s is reachable\n", svc.Name())
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tLANGUAGE")
		for _, code := range codes {
			fmt.Fprintf(w, "%s\t%s\n", code, translator.DisplayName(code))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().BoolVar(&checkProvider, "check", false, "Verify the provider endpoint and credentials first")
	languagesCmd.Flags().StringP("provider", "p", "azure", "Translation provider: azure, google")
	languagesCmd.Flags().String("region", "", "Azure resource region (default from config)")
	languagesCmd.Flags().StringP("credentials", "c", "", "Path to Google Cloud credentials")
}
