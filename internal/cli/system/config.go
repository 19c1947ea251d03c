package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/becoming/internal/cli"
	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/keyring"
	"github.com/julianstephens/becoming/internal/storage/postgres"
	"github.com/julianstephens/becoming/internal/utils"
)

type ConfigCmd struct {
	SetConnection   SetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	ClearConnection ClearConnectionCmd `cmd:"" help:"Remove the stored connection string from the OS keyring."`
	Show            ConfigShowCmd      `cmd:"" help:"Show where the database location comes from."`
	Timezone        TimezoneCmd        `cmd:"" help:"Show or set the timezone used to decide what day it is."`
}

// SetConnectionCmd stores database connection credentials in the OS keyring
type SetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *SetConnectionCmd) Run(ctx *cli.Context) error {
	if !utils.IsPostgresURL(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is the one place a password-bearing string may live.
		fmt.Println(cli.WarningStyle.Render("⚠ Connection string contains embedded credentials."))
		fmt.Println("  It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Connection string stored successfully in OS keyring"))
	fmt.Printf("  You can now use %s without the --config flag\n", constants.AppName)
	return nil
}

type ClearConnectionCmd struct{}

func (cmd *ClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Connection string deleted from OS keyring"))
	return nil
}

// ConfigShowCmd prints the resolved database location with passwords masked.
type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	fmt.Printf("Database:  %s\n", keyring.MaskPassword(ctx.Connection))
	fmt.Printf("Source:    %s\n", ctx.Source)
	if keyring.IsAvailable() {
		fmt.Println("Keyring:   available")
	} else {
		fmt.Println("Keyring:   unavailable")
	}
	fmt.Printf("Timezone:  %s\n", ctx.Location)
	return nil
}

type TimezoneCmd struct {
	Name string `arg:"" optional:"" help:"IANA timezone name, or Local."`
}

func (cmd *TimezoneCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if cmd.Name == "" {
		fmt.Println(settings.Timezone)
		return nil
	}
	if !utils.ValidateTimezone(cmd.Name) {
		return fmt.Errorf("invalid timezone %q", cmd.Name)
	}
	settings.Timezone = cmd.Name
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("Timezone set to %s\n", cmd.Name)
	return nil
}
