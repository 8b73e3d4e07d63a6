package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// providersCommand creates the providers management command.
func (c *CLI) providersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Aliases: []string{"cdns"},
		Short:   "List and edit the configured CDN providers",
	}

	cmd.AddCommand(c.providersListCommand())
	cmd.AddCommand(c.providersToggleCommand("enable", true))
	cmd.AddCommand(c.providersToggleCommand("disable", false))
	cmd.AddCommand(c.providersMoveCommand())
	cmd.AddCommand(c.providersAddCommand())
	cmd.AddCommand(c.providersRemoveCommand())

	return cmd
}

func (c *CLI) providersListCommand() *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show providers in fallback order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.openConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer h.Store().Close()

			providers := h.Get().Providers
			if region != "" {
				providers = provider.FilterRegion(providers, provider.Region(region))
			}
			fmt.Println(providersTable(providers))
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "only show providers of one region (global, china)")
	return cmd
}

func (c *CLI) providersToggleCommand(verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: fmt.Sprintf("%s a provider", map[bool]string{true: "Enable", false: "Disable"}[enabled]),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editProviders(cmd, func(cfg *provider.Config) error {
				return cfg.SetEnabled(args[0], enabled)
			}, fmt.Sprintf("%s %sd", args[0], verb))
		},
	}
}

func (c *CLI) providersMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "move <id> up|down",
		Short:     "Move a provider one slot up or down in fallback order",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir provider.Direction
			switch args[1] {
			case "up":
				dir = provider.Up
			case "down":
				dir = provider.Down
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[1])
			}
			return c.editProviders(cmd, func(cfg *provider.Config) error {
				return cfg.Move(args[0], dir)
			}, fmt.Sprintf("Moved %s %s", args[0], args[1]))
		},
	}
}

func (c *CLI) providersAddCommand() *cobra.Command {
	var d provider.Definition
	cmd := &cobra.Command{
		Use:   "add <name> <js-template>",
		Short: "Add a custom CDN source",
		Long: `Add a custom CDN source. Templates must be http(s) URLs containing {package};
{version} is replaced with the resolved version.`,
		Example: `  cdnfetch providers add "My Mirror" 'https://mirror.example/npm/{package}@{version}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Name, d.JSTemplate = args[0], args[1]
			var added provider.Definition
			err := c.editProviders(cmd, func(cfg *provider.Config) error {
				var err error
				added, err = cfg.AddCustom(d)
				return err
			}, "")
			if err != nil {
				return err
			}
			printSuccess("Added %s", added.Name)
			printKeyValue("ID", added.ID)
			printKeyValue("Command", added.MethodName())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&d.ID, "id", "", "provider id (generated when empty)")
	f.StringVar(&d.CSSTemplate, "css", "", "stylesheet URL template (defaults to the JS template)")
	f.StringVar(&d.Description, "description", "", "short description")
	f.StringVar((*string)(&d.Region), "region", "", "region tag (global, china)")
	f.StringVar(&d.SearchAPI, "search-api", "", "metadata URL used by search, with {package}")
	f.StringVar(&d.VersionsAPI, "versions-api", "", "metadata URL used by versions, with {package}")
	f.StringVar(&d.SearchPath, "search-path", "", "JSONPath selecting package objects in the search response")
	f.StringVar(&d.VersionsPath, "versions-path", "", "JSONPath selecting version strings in the versions response")
	return cmd
}

func (c *CLI) providersRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a provider",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editProviders(cmd, func(cfg *provider.Config) error {
				return cfg.Remove(args[0])
			}, "Removed "+args[0])
		},
	}
}

// editProviders applies edit through the config holder and prints done on
// success.
func (c *CLI) editProviders(cmd *cobra.Command, edit func(*provider.Config) error, done string) error {
	ctx := cmd.Context()
	h, err := c.openConfig(ctx)
	if err != nil {
		return err
	}
	defer h.Store().Close()

	if err := h.Update(ctx, edit); err != nil {
		return err
	}
	if done != "" {
		printSuccess("%s", done)
		printDetail("Saved to %s", h.Store().Location())
	}
	return nil
}
