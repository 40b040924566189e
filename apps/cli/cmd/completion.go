package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for factform.

To load completions:

Bash:
  $ source <(factform completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ factform completion bash > /etc/bash_completion.d/factform
  # macOS:
  $ factform completion bash > $(brew --prefix)/etc/bash_completion.d/factform

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ factform completion zsh > "${fpath[1]}/_factform"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ factform completion fish | source

  # To load completions for each session, execute once:
  $ factform completion fish > ~/.config/fish/completions/factform.fish

PowerShell:
  PS> factform completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> factform completion powershell > factform.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
