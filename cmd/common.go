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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/valpere/langbridge/internal/language"
	"github.com/valpere/langbridge/internal/pipeline"
	"github.com/valpere/langbridge/internal/safety"
	"github.com/valpere/langbridge/internal/store"
)

// buildLanguageService constructs the configured language service.
func buildLanguageService() (language.Service, error) {
	name := viper.GetString("service")
	switch name {
	case "google":
		return language.NewGoogleService(viper.GetString("credentials")), nil
	case "ollama":
		return language.NewOllamaService(viper.GetString("ollama-url"), viper.GetStringSlice("ollama-models")), nil
	case "local":
		return language.NewLocalService(), nil
	default:
		return nil, fmt.Errorf("unknown language service: %s (expected google, ollama, or local)", name)
	}
}

// buildSafetyService constructs the moderation classifier.
func buildSafetyService() safety.Service {
	return safety.NewOpenAIClassifier(
		viper.GetString("openai-key"),
		viper.GetString("openai-model"),
		viper.GetString("openai-url"),
	)
}

// buildPipeline assembles the full processing pipeline from configuration.
func buildPipeline() (*pipeline.Pipeline, error) {
	lang, err := buildLanguageService()
	if err != nil {
		return nil, err
	}

	return pipeline.New(lang, buildSafetyService(), pipeline.Config{
		Logger: logger,
	}), nil
}

// openStore opens the audit store when --db is configured; it returns nil
// when auditing is disabled.
func openStore() (*store.Store, error) {
	path := defaultDBPath(viper.GetString("db"))
	if path == "" {
		return nil, nil
	}
	return store.New(path)
}

// recordRun persists a pipeline result to the audit store. Best effort:
// a failed write must not fail the command.
func recordRun(ctx context.Context, db *store.Store, res *pipeline.Result) {
	if db == nil {
		return
	}

	rec := store.RunRecord{
		ID:             uuid.New().String(),
		InputText:      res.InputText,
		LangCode:       res.DetectedLanguage.Code,
		LangName:       res.DetectedLanguage.Name,
		Confidence:     res.DetectedLanguage.Confidence,
		LowConfidence:  res.LowConfidence,
		WorkingText:    res.WorkingText,
		Approved:       res.Approved,
		Categories:     res.ModerationCategories,
		Rationale:      res.ModerationRationale,
		OutputText:     res.OutputText,
		TranslatedBack: res.TranslatedBack,
		Step:           res.ProcessingStep.String(),
		DurationMS:     res.DurationMS,
	}
	if res.Error != nil {
		rec.ErrorKind = res.Error.Kind
	}

	if err := db.SaveRun(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to record run: %v\n", err)
	}
}

// printResult writes a human-readable summary of one pipeline run to stdout.
func printResult(res *pipeline.Result) {
	if !res.Success {
		fmt.Printf("Processing failed at %s: [%s] %s\n",
			res.ProcessingStep, res.Error.Kind, res.Error.Message)
		return
	}

	fmt.Printf("Detected language: %s (%s, confidence %.2f)\n",
		res.DetectedLanguage.Name, res.DetectedLanguage.Code, res.DetectedLanguage.Confidence)
	if res.LowConfidence {
		fmt.Println("Warning: low detection confidence, result may be unreliable")
	}

	if res.Blocked() {
		fmt.Printf("Content blocked: %s\n", strings.Join(res.ModerationCategories, ", "))
		if res.ModerationRationale != "" {
			fmt.Printf("Reason: %s\n", res.ModerationRationale)
		}
		return
	}

	fmt.Println("Content approved")
	if !res.IsCanonical && !res.TranslatedBack {
		fmt.Println("Note: translation back to the original language failed, showing English")
	}
	fmt.Printf("\n%s\n", res.OutputText)
}
