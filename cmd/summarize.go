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

	"github.com/lmdiaz/escena/internal/analytics"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [artist_id...]",
	Short: "Derives summary statistics into the analytics store",
	Long: `Writes the per-artist and per-album key/mode crosstabs and metric
statistics. With no ids, every saved artist without a summary is
processed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSummarize(args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(artistIDs []string) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()
	derived, err := openAnalytics()
	if err != nil {
		return err
	}
	defer derived.Close()

	s := analytics.New(catalog, derived)
	s.Verbose = viper.GetBool("verbose")
	if len(artistIDs) == 0 {
		return s.BatchCreate()
	}
	for _, artistID := range artistIDs {
		if err := s.CreateEntry(artistID); err != nil {
			return err
		}
	}
	return nil
}
