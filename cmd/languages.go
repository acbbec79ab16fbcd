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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages supported by the configured service",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildLanguageService()
		if err != nil {
			return err
		}

		langs, err := svc.Languages(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}

		codes := make([]string, 0, len(langs))
		for code := range langs {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, code := range codes {
			fmt.Fprintf(w, "%s\t%s\n", code, langs[code])
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d languages supported by %s\n", len(codes), svc.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
