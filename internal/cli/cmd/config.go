package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/spaced/internal/cli/styles"
	"github.com/bnema/spaced/internal/infrastructure/config"
)

var configSchemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where spaced keeps its files, the effective configuration and its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config, schema, database and log locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Args:  cobra.NoArgs,
	RunE:  runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)

	configSchemaCmd.Flags().BoolVar(&configSchemaWrite, "write", false, "write the schema next to the config file")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	t := app.Theme
	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)

	schema, err := config.GetSchemaFile()
	if err != nil {
		return err
	}
	logDir := app.Config.Logging.LogDir
	if logDir == "" {
		if logDir, err = config.GetLogDir(); err != nil {
			return err
		}
	}

	rows := []struct{ icon, label, path string }{
		{styles.IconConfig, "Config  ", app.Manager.GetConfigFile()},
		{styles.IconInfo, "Schema  ", schema},
		{styles.IconDatabase, "Database", app.Config.Database.Path},
		{styles.IconClock, "Logs    ", logDir},
	}
	for _, r := range rows {
		fmt.Printf("  %s %s %s\n", iconStyle.Render(r.icon), t.Normal.Render(r.label), t.Subtle.Render(r.path))
	}
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	data, err := config.MarshalTOML(app.Config)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	if configSchemaWrite {
		path, err := config.GenerateSchemaFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}
	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
