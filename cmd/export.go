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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lmdiaz/escena/internal/artifact"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [artifact...]",
	Short: "Renders the chart JSON artifacts",
	Long: fmt.Sprintf(`Writes chart data files under the output directory. With no
arguments every artifact is built, in order: %s.`,
		strings.Join(artifact.Names(), ", ")),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(args); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(names []string) error {
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

	b := artifact.New(catalog, derived, viper.GetString("out"))
	b.Verbose = viper.GetBool("verbose")

	if len(names) == 0 {
		names = artifact.Names()
	}
	for _, name := range names {
		fmt.Printf("building %s\n", name)
		if err := b.Build(name); err != nil {
			return err
		}
	}
	return nil
}
