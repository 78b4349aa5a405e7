package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/func/flexconf/config"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestReadSettings(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	got, err := config.ReadSettings(v, "testdata/settings.yaml")
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}
	want := &config.Settings{
		Gateway: config.GatewaySettings{
			Endpoint: "https://gateway.example.com",
			Username: "admin",
			Password: "secret",
			Timeout:  30 * time.Second,
		},
		Log: config.LogSettings{Level: "debug", Format: "console"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("ReadSettings() (-got, +want)\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestReadSettings_env(t *testing.T) {
	os.Setenv("FLEXCONF_GATEWAY_PASSWORD", "fromenv")
	defer os.Unsetenv("FLEXCONF_GATEWAY_PASSWORD")

	v := viper.New()
	config.SetDefaults(v)
	got, err := config.ReadSettings(v, "testdata/settings.yaml")
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}
	if got.Gateway.Password != "fromenv" {
		t.Errorf("Password = %q, want fromenv", got.Gateway.Password)
	}
}

func TestReadSettings_missingFile(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	if _, err := config.ReadSettings(v, "testdata/nonexisting.yaml"); err == nil {
		t.Error("ReadSettings() with missing explicit file want error")
	}
}

func TestSettings_Validate(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	s, err := config.ReadSettings(v, "")
	if err != nil {
		t.Fatalf("ReadSettings() error = %v", err)
	}
	err = s.Validate()
	if err == nil {
		t.Fatal("Validate() want error for empty endpoint")
	}
	want := "invalid settings: gateway.endpoint, gateway.username, gateway.password"
	if err.Error() != want {
		t.Errorf("Validate() error = %q, want %q", err, want)
	}
}
