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
	"path/filepath"

	"google.golang.org/api/option"

	"github.com/valpere/scriptran/internal/azure"
	"github.com/valpere/scriptran/internal/config"
	"github.com/valpere/scriptran/internal/detector"
	"github.com/valpere/scriptran/internal/orchestrator"
	"github.com/valpere/scriptran/internal/recognizer"
	"github.com/valpere/scriptran/internal/render"
	"github.com/valpere/scriptran/internal/store"
	"github.com/valpere/scriptran/internal/translator"
	"github.com/valpere/scriptran/internal/validator"
)

func newAzureClient(c *config.Config) *azure.Client {
	return azure.NewClient(c.Azure.Key,
		azure.WithRegion(c.Azure.Region),
		azure.WithTimeout(c.HTTPTimeout),
	)
}

// buildTranslator constructs the translation service selected by the provider setting.
func buildTranslator(c *config.Config) (translator.TranslationService, error) {
	switch c.Provider {
	case "azure":
		return translator.NewAzureService(c.Azure.TranslatorEndpoint, newAzureClient(c)), nil
	case "google":
		var opts []option.ClientOption
		if c.Google.ProjectID != "" {
			opts = append(opts, option.WithQuotaProject(c.Google.ProjectID))
		}
		return translator.NewGoogleService(c.Google.Credentials, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", c.Provider)
	}
}

func buildRecognition(c *config.Config) (*recognizer.Submitter, *recognizer.Poller) {
	// The Computer Vision resource is keyed by endpoint; it takes no region header.
	client := azure.NewClient(c.Azure.Key, azure.WithTimeout(c.HTTPTimeout))
	submitter := recognizer.NewSubmitter(c.Azure.VisionEndpoint, client)
	poller := recognizer.NewPoller(client, recognizer.PollerConfig{
		MaxAttempts: c.Poll.MaxAttempts,
		Delay:       c.Poll.Delay,
	}, recognizer.WithLogger(logger))
	return submitter, poller
}

// openStore opens the configured SQLite store. It returns nil when no
// store path is set.
func openStore(c *config.Config) (*store.Store, error) {
	if c.StorePath == "" {
		return nil, nil
	}
	if dir := filepath.Dir(c.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	db, err := store.New(c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// requireStore is openStore for commands that cannot run without one.
func requireStore(c *config.Config) (*store.Store, error) {
	if c.StorePath == "" {
		return nil, fmt.Errorf("no store configured (use --store or set %s_STORE_PATH)", config.EnvPrefix)
	}
	return openStore(c)
}

func orchestratorOptions(c *config.Config, db *store.Store, noCache bool) []orchestrator.Option {
	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if db != nil {
		opts = append(opts, orchestrator.WithHistory(db))
		if !noCache {
			opts = append(opts, orchestrator.WithCache(db))
		}
	}
	if c.ValidateOutput {
		// English is included so untranslated input is caught.
		det := detector.New(append(translator.Languages(), "en")...)
		opts = append(opts, orchestrator.WithValidator(validator.New(det)))
	}
	return opts
}

// writeOutput renders doc to outputFile, or to stdout when it is empty.
func writeOutput(outputFile string, format render.Format, doc render.Document) error {
	if outputFile == "" {
		return render.Render(os.Stdout, format, doc)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := render.Render(f, format, doc); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
