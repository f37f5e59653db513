package main

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Generate shell completion script",
		Long: `Generate a shell completion script for nephyra.

To load completions:

  bash:
    source <(nephyra completion bash)

  zsh:
    echo 'source <(nephyra completion zsh)' >> ~/.zshrc

  fish:
    nephyra completion fish > ~/.config/fish/completions/nephyra.fish

Besides subcommands and flags, the scripts complete GPU types for
"prefs set-gpu" (auto, nvidia, amd, intel, integrated) and run IDs from the
history directory for "history show".
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Help()
			}
		},
	}
}
