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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lmdiaz/escena/internal/dump"
	"github.com/lmdiaz/escena/internal/store"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints row counts for both stores and the dump queue",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStatus(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

var analyticsTables = []string{"artist_summary", "album_summary", "track_projection", "projection_metadata"}

func runStatus() error {
	rows, err := statusRows()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Store", "Table", "Rows"})
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

func statusRows() ([][]string, error) {
	catalog, err := openCatalog()
	if err != nil {
		return nil, err
	}
	defer catalog.Close()
	derived, err := openAnalytics()
	if err != nil {
		return nil, err
	}
	defer derived.Close()

	var rows [][]string
	appendCounts := func(label string, s *store.Store, tables []string) error {
		for _, t := range tables {
			n, err := s.Count(t)
			if err != nil {
				return err
			}
			rows = append(rows, []string{label, t, strconv.Itoa(n)})
		}
		return nil
	}
	if err := appendCounts("catalog", catalog, store.CatalogTables); err != nil {
		return nil, err
	}
	if err := appendCounts("analytics", derived, analyticsTables); err != nil {
		return nil, err
	}

	dumps, err := dump.NewDir(viper.GetString("dumps"))
	if err != nil {
		return nil, err
	}
	pending, err := dumps.List()
	if err != nil {
		return nil, err
	}
	rows = append(rows, []string{"dumps", "pending", strconv.Itoa(len(pending))})
	return rows, nil
}
