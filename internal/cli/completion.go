package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command. Provider commands are
// generated from the stored configuration, so completions reflect the
// providers enabled when the script was generated.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell and source it from your profile.

  bash        source <(cdnfetch completion bash)
  zsh         cdnfetch completion zsh > "${fpath[1]}/_cdnfetch"
  fish        cdnfetch completion fish > ~/.config/fish/completions/cdnfetch.fish
  powershell  cdnfetch completion powershell | Out-String | Invoke-Expression

Regenerate the script after enabling, disabling or adding providers.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
