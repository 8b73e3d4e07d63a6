package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/integrations"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		perCDN      bool
		interactive bool
		flags       importFlags
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search npm packages",
		Long: `Search the npm registry for packages ranked by relevance. With --cdn the query is
instead treated as a package name and looked up on every enabled CDN that
exposes a metadata API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openServices(ctx)
			if err != nil {
				return err
			}
			svc := c.newSearch(s)

			spinner := newSpinner(ctx, fmt.Sprintf("Searching for %q...", args[0]))
			spinner.Start()
			var hits []integrations.PackageInfo
			if perCDN {
				hits, err = svc.Search(ctx, args[0])
			} else {
				hits, err = svc.Registry(ctx, args[0])
			}
			spinner.Stop()
			s.Close()
			if err != nil {
				return err
			}

			if len(hits) == 0 {
				printInfo("No packages found.")
				return nil
			}

			if !interactive {
				fmt.Println(resultsTable(hits))
				printNewline()
				printSuccess("Found %d packages", len(hits))
				printNextStep("Import one", "cdnfetch import <package>")
				return nil
			}

			final, err := tea.NewProgram(NewPackageListModel(hits)).Run()
			if err != nil {
				return err
			}
			m, ok := final.(PackageListModel)
			if !ok || m.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			spec := m.Selected.Name
			if m.Selected.Version != "" {
				spec += "@" + m.Selected.Version
			}
			return c.runImport(ctx, "", false, []string{spec}, &flags)
		},
	}
	cmd.Flags().BoolVar(&perCDN, "cdn", false, "look the name up on each CDN instead of the registry")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a result and import it")
	flags.register(cmd, true)
	return cmd
}

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <package>",
		Short: "List available versions of a package, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openServices(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			name := args[0]
			spinner := newSpinner(ctx, fmt.Sprintf("Getting versions for %q...", name))
			spinner.Start()
			versions, err := c.newSearch(s).Versions(ctx, name)
			spinner.Stop()
			if err != nil {
				return err
			}

			if len(versions) == 0 {
				printInfo("No versions found or package does not exist.")
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Available versions of %s", name)))
			for i, v := range versions {
				if i == 0 {
					fmt.Printf("  %s %s\n", StyleValue.Render(v), StyleSuccess.Render("(latest)"))
					continue
				}
				fmt.Printf("  %s\n", v)
			}
			printNewline()
			printNextStep("Import a specific version", fmt.Sprintf("cdnfetch import %s@<version>", name))
			return nil
		},
	}
}
