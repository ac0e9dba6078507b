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
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/lmdiaz/escena/internal/dump"
	"github.com/lmdiaz/escena/internal/ingest"
	"github.com/lmdiaz/escena/internal/migration"
	"github.com/lmdiaz/escena/internal/spotify"
	"github.com/lmdiaz/escena/internal/store"
)

var cfgFile string
var catalogPath string
var analyticsPath string
var dumpDir string
var outDir string
var clientID string
var clientSecret string
var sendgridApiKey string
var fromAddress string
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "escena",
	Short: "Harvests a music catalog into SQLite and derives chart data",
	Long: `Fetches artist, album, track and audio-feature data from the
provider into a local catalog, derives per-artist statistics and a
track projection into a second database, and renders the JSON
artifacts the charts consume.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.escena.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&catalogPath, "catalog", "d", "./artistas.db", "Path to the catalog SQLite database")
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))

	rootCmd.PersistentFlags().StringVar(
		&analyticsPath, "analytics", "./analisis.db", "Path to the analytics SQLite database")
	viper.BindPFlag("analytics", rootCmd.PersistentFlags().Lookup("analytics"))

	rootCmd.PersistentFlags().StringVar(
		&dumpDir, "dumps", "./dumps", "Directory for failed-write payload dumps")
	viper.BindPFlag("dumps", rootCmd.PersistentFlags().Lookup("dumps"))

	rootCmd.PersistentFlags().StringVarP(
		&outDir, "out", "o", "./generated", "Directory for generated JSON artifacts")
	viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))

	rootCmd.PersistentFlags().StringVar(&clientID, "client_id", "", "provider API client id")
	viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client_id"))

	rootCmd.PersistentFlags().StringVar(&clientSecret, "client_secret", "", "provider API client secret")
	viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client_secret"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	rootCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "From email address for notifications")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print progress detail")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".escena" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".escena")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func openCatalog() (*store.Store, error) {
	s, err := store.Open(viper.GetString("catalog"), migration.Catalog)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return s, nil
}

func openAnalytics() (*store.Store, error) {
	s, err := store.Open(viper.GetString("analytics"), migration.Analytics())
	if err != nil {
		return nil, fmt.Errorf("opening analytics store: %w", err)
	}
	return s, nil
}

func newIngestor(catalog *store.Store) (*ingest.Ingestor, error) {
	dumps, err := dump.NewDir(viper.GetString("dumps"))
	if err != nil {
		return nil, err
	}
	client := spotify.New(viper.GetString("client_id"), viper.GetString("client_secret"))
	g := ingest.New(catalog, client, dumps)
	g.Verbose = viper.GetBool("verbose")
	return g, nil
}
