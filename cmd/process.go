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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	processInputFile string
	processAsJSON    bool
)

var processCmd = &cobra.Command{
	Use:   "process [text]",
	Short: "Process one message through the moderation pipeline",
	Long: `Process a single message: detect its language, translate it to English,
moderate it, and return the approved content in the original language.

The text is passed as an argument or read from a file with --input.

Blocked content exits with status 0 and an explanation; only processing
failures (service outages, invalid input) exit non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readProcessInput(args)
		if err != nil {
			return err
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if db != nil {
			defer db.Close()
		}

		ctx := context.Background()
		res := p.Process(ctx, text)
		recordRun(ctx, db, res)

		if processAsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			printResult(res)
		}

		if !res.Success {
			return fmt.Errorf("processing failed: %s", res.Error.Kind)
		}
		return nil
	},
}

func readProcessInput(args []string) (string, error) {
	if processInputFile != "" {
		data, err := os.ReadFile(processInputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return "", fmt.Errorf("provide text as an argument or use --input")
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processInputFile, "input", "i", "", "Read the message from a file instead of the argument")
	processCmd.Flags().BoolVar(&processAsJSON, "json", false, "Print the full result as JSON")
}
