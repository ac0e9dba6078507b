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
	"github.com/spf13/viper"

	"github.com/lmdiaz/escena/internal/ingest"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <artist_id...>",
	Short: "Fetches artists from the provider into the catalog",
	Long: `Creates a full catalog entry (albums, tracks, audio features, genres,
related artists, listener geography) for each given artist id. Ids
already in the catalog are skipped.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runIngest(args, ingest.Options{
			CacheOnError:    viper.GetBool("cache-on-error"),
			ContinueOnError: viper.GetBool("continue-on-error"),
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	var cacheOnError bool
	ingestCmd.Flags().BoolVar(&cacheOnError, "cache-on-error", true,
		"Dump the fetched payload to disk when a write fails, for later retry")
	viper.BindPFlag("cache-on-error", ingestCmd.Flags().Lookup("cache-on-error"))

	var continueOnError bool
	ingestCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false,
		"Move on to the next artist after a recoverable storage failure")
	viper.BindPFlag("continue-on-error", ingestCmd.Flags().Lookup("continue-on-error"))
}

func runIngest(artistIDs []string, opts ingest.Options) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	g, err := newIngestor(catalog)
	if err != nil {
		return err
	}
	return g.BatchCreate(artistIDs, opts)
}
