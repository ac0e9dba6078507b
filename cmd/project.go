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

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Recomputes the global track projection",
	Long: `Reduces every feature-complete track to two dimensions and replaces
the stored projection. The explained-variance metadata of each run is
kept as history.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProject(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

func runProject() error {
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
	return s.ProjectTracks()
}
