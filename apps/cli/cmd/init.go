package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/factform/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new factform project",
	Long: `Initialize a new factform project in the current directory.

This creates:
  - factform.yaml  - Configuration file
  - index.html     - Page with the four fact forms

Examples:
  factform init
  factform init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const examplePage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Animal facts</title>
</head>
<body>
  <form id="addFactForm">
    <label>Fact <input type="text" name="fact" value="the otter lives in the river"></label>
    <input type="submit" value="Add fact">
  </form>

  <form id="askForm">
    <label>Question <input type="text" name="question" value="where do otters live"></label>
    <input type="submit" value="Ask">
  </form>

  <form id="factForm">
    <label>Fact id <input type="text" name="fact_id" value=""></label>
    <input type="submit" value="Get fact">
  </form>
</body>
</html>
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return initProject(cmd, cwd)
}

func initProject(cmd *cobra.Command, dir string) error {
	configFile := filepath.Join(dir, "factform.yaml")
	pageFile := filepath.Join(dir, "index.html")

	if !forceInit {
		for _, f := range []string{configFile, pageFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Headers = map[string]string{
		"User-Agent": "factform/" + version,
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(pageFile, []byte(examplePage), 0644); err != nil {
		return fmt.Errorf("failed to create page file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", pageFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nfactform project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'factform mock' in one terminal, then 'factform add index.html' in another.\n")

	return nil
}
