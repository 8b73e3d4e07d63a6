package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// debugCommand creates the debug command, which dumps the effective
// configuration and the generated per-provider commands.
func (c *CLI) debugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Show the effective configuration and provider commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.openConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer h.Store().Close()
			cfg := h.Get()

			fmt.Println(StyleTitle.Render("Build"))
			printKeyValue("Version", buildinfo.Short())
			printNewline()

			fmt.Println(StyleTitle.Render("Config"))
			printSettings(cfg)
			printKeyValue("Store", h.Store().Location())
			printKeyValue("Parser", map[bool]string{true: "legacy", false: "scope-aware"}[c.legacy])
			printNewline()

			fmt.Println(StyleTitle.Render("Providers"))
			fmt.Println(providersTable(cfg.Providers))
			printNewline()

			enabled := provider.Enabled(cfg)
			ids := make([]string, len(enabled))
			for i, p := range enabled {
				ids[i] = p.ID
			}
			fmt.Println(StyleTitle.Render("Fallback order"))
			fmt.Println("  " + strings.Join(ids, " "+iconArrow+" "))
			if len(provider.EnabledESM(cfg)) == 0 {
				printWarning("No enabled provider serves ES modules")
			}
			printNewline()

			fmt.Println(StyleTitle.Render("Provider commands"))
			for _, pc := range provider.Commands(cfg).List() {
				kinds := "js, css"
				if pc.Accepts(provider.Module) {
					kinds += ", esm"
				}
				fmt.Printf("  %s %s\n", styleCommand.Render(fmt.Sprintf("%-14s", pc.Key)), StyleDim.Render(pc.Provider+" ("+kinds+")"))
			}
			return nil
		},
	}
}
