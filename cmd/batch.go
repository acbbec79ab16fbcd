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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	batchInputFile  string
	batchOutputFile string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a file of messages, one per line",
	Long: `Process every non-empty line of the input file through the pipeline and
write one JSON result per line to the output file.

Lines that fail keep their position in the output so results stay aligned
with the input. A summary is printed when the batch completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchInputFile == batchOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		in, err := os.Open(batchInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer in.Close()

		if dir := filepath.Dir(batchOutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		out, err := os.Create(batchOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

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
		enc := json.NewEncoder(out)

		var processed, approved, blocked, failed int

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			res := p.Process(ctx, line)
			recordRun(ctx, db, res)

			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}

			processed++
			switch {
			case !res.Success:
				failed++
			case res.Blocked():
				blocked++
			default:
				approved++
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		fmt.Printf("Processed %d messages: %d approved, %d blocked, %d failed\n",
			processed, approved, blocked, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchInputFile, "input", "i", "", "Input file with one message per line (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "output", "o", "", "Output file for JSON results (required)")

	batchCmd.MarkFlagRequired("input")
	batchCmd.MarkFlagRequired("output")
}
