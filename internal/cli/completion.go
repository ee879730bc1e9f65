package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
// Completions cover subcommands, flags and the fixed values of --engine,
// --format and --input-format.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sociogram.

To load completions:

Bash:
  $ source <(sociogram completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sociogram completion bash > /etc/bash_completion.d/sociogram
  # macOS:
  $ sociogram completion bash > $(brew --prefix)/etc/bash_completion.d/sociogram

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sociogram completion zsh > "${fpath[1]}/_sociogram"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sociogram completion fish | source

  # To load completions for each session, execute once:
  $ sociogram completion fish > ~/.config/fish/completions/sociogram.fish

PowerShell:
  PS> sociogram completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sociogram completion powershell > sociogram.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),

		// Completion scripts must not depend on a readable config file.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
