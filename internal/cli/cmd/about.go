package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/spaced/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	Long:  `Display the version, commit, build date and Go toolchain of this binary.`,
	RunE:  runAbout,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(buildInfo.String())
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
	rootCmd.AddCommand(versionCmd)
}

func runAbout(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	fmt.Println(styles.NewAboutRenderer(app.Theme).Render(app.BuildInfo))
	return nil
}
