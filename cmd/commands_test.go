package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNotifyRequiresFromAndKey(t *testing.T) {
	// Reset viper
	viper.Reset()
	viper.Set("from", "")

	err := notifyCmd.PreRunE(notifyCmd, []string{"test@example.com"})
	if err == nil {
		t.Error("Expected error when from is missing, got nil")
	} else if err.Error() != "required flag(s) \"from\" not set" {
		t.Errorf("Expected 'required flag(s) \"from\" not set', got %v", err)
	}

	viper.Set("from", "escena@example.com")
	viper.Set("sendgrid_api_key", "")
	err = notifyCmd.PreRunE(notifyCmd, []string{"test@example.com"})
	if err == nil {
		t.Error("Expected error when sendgrid_api_key is missing, got nil")
	}

	viper.Set("sendgrid_api_key", "test-key")
	err = notifyCmd.PreRunE(notifyCmd, []string{"test@example.com"})
	if err != nil {
		t.Errorf("Expected nil when flags are set, got %v", err)
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	want := []string{
		"ingest", "retry", "update", "delete",
		"summarize", "project", "export", "status", "notify",
	}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("Command %q not registered", name)
		}
	}
}
