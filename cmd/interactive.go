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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive message processing session",
	Long: `Start an interactive session: type a message in any language and see the
detection, moderation, and translation results. Type "quit" or "exit" to
leave, "help" for a reminder of the commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		fmt.Println("langbridge interactive session")
		fmt.Println("Type a message in any language, \"help\" for commands, \"quit\" to exit.")
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}

			line := strings.TrimSpace(scanner.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "quit", "exit":
				fmt.Println("Goodbye!")
				return nil
			case "help":
				fmt.Println("Commands:")
				fmt.Println("  help        show this message")
				fmt.Println("  quit, exit  leave the session")
				fmt.Println("Anything else is processed as a message.")
				continue
			}

			res := p.Process(ctx, line)
			recordRun(ctx, db, res)
			printResult(res)
			fmt.Println()
		}

		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
