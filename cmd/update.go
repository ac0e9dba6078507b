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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [artist_id...]",
	Short: "Re-fetches stored artists from the provider",
	Long: `Refreshes the artist row and appends newly released albums and their
tracks. Genre, related-artist and listener rows are rebuilt. With no
ids, every stored artist is considered.`,
	Run: func(cmd *cobra.Command, args []string) {
		olderThanStr := viper.GetString("older-than")
		olderThan, err := time.ParseDuration(olderThanStr)
		if err != nil {
			fmt.Printf("Invalid older-than: %v. Updating everything.\n", err)
			olderThan = 0
		}

		if err := runUpdate(args, olderThan); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var olderThan string
	updateCmd.Flags().StringVar(&olderThan, "older-than", "0s",
		"Only update artists whose stored entry is older than this duration (e.g. 720h)")
	viper.BindPFlag("older-than", updateCmd.Flags().Lookup("older-than"))
}

func runUpdate(artistIDs []string, olderThan time.Duration) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	g, err := newIngestor(catalog)
	if err != nil {
		return err
	}
	if len(artistIDs) == 0 {
		return g.UpdateAll(olderThan)
	}
	return g.BatchUpdate(artistIDs, olderThan)
}
