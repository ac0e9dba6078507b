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

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// notifyCmd represents the notify command
var notifyCmd = &cobra.Command{
	Use:   "notify <address>",
	Short: "Emails a store status summary",
	Long:  `Sends the row counts of both stores and the dump queue to the given address.`,
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		if viper.GetString("sendgrid_api_key") == "" {
			return fmt.Errorf("required flag(s) \"sendgrid_api_key\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runNotify(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(toAddress string) error {
	rows, err := statusRows()
	if err != nil {
		return err
	}

	var body strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&body, "%s %s: %s\n", row[0], row[1], row[2])
	}

	from := mail.NewEmail("escena", viper.GetString("from"))
	to := mail.NewEmail(toAddress, toAddress)
	subject := "escena store status"
	message := mail.NewSingleEmail(from, subject, to, body.String(), body.String())
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	fmt.Printf("Sent status to %s\n", toAddress)
	return nil
}
