/*
Copyright 2022 the escena authors

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

	"github.com/spf13/cobra"
)

// retryCmd represents the retry command
var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Re-attempts every dumped artist payload",
	Long: `Replays the write path for each payload dumped by a failed ingest,
without fetching from the provider again. Partial rows from the failed
attempt are removed first; the dump file is deleted on success.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRetry(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(retryCmd)
}

func runRetry() error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	g, err := newIngestor(catalog)
	if err != nil {
		return err
	}
	return g.Retry()
}
