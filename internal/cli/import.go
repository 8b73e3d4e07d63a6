package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/importer"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// ErrReported marks a failure whose message was already shown to the user.
var ErrReported = errors.New("failure already reported")

// cdnGroup is the help group of the generated per-provider commands.
const cdnGroup = "cdn"

type importFlags struct {
	css    bool
	esm    bool
	from   string
	out    string
	noSave bool
}

func (f *importFlags) register(cmd *cobra.Command, esm bool) {
	cmd.Flags().BoolVar(&f.css, "css", false, "load the stylesheet")
	if esm {
		cmd.Flags().BoolVar(&f.esm, "esm", false, "load as an ES module")
		cmd.MarkFlagsMutuallyExclusive("css", "esm")
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", ".", "directory to write the delivered asset to")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "only check that the asset can be delivered")
}

func (f *importFlags) kind() provider.AssetKind {
	switch {
	case f.esm:
		return provider.Module
	case f.css:
		return provider.Stylesheet
	default:
		return provider.Script
	}
}

func (f *importFlags) loader() (deliver.Loader, error) {
	var doc deliver.Document
	if !f.noSave {
		d, err := deliver.NewDirDocument(f.out)
		if err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
		doc = d
	}
	return deliver.NewHTTPLoader(doc, deliver.WithUserAgent(buildinfo.UserAgent())), nil
}

// importCommand creates the fallback import command.
func (c *CLI) importCommand() *cobra.Command {
	var flags importFlags
	cmd := &cobra.Command{
		Use:   "import <package>[@version] [version]",
		Short: "Import a package from the first CDN that serves it",
		Long: `Import a package from the enabled CDNs in priority order, falling back to the
next one until a delivery succeeds. An unpinned version is resolved once, before
the first attempt. Use --from to pin the request to a single provider.`,
		Example: `  cdnfetch import lodash
  cdnfetch import lodash 4.17.21
  cdnfetch import @vue/shared@3.4.0 --esm
  cdnfetch import bootstrap@5.3.0 --css --from unpkg`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), flags.from, false, args, &flags)
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&flags.from, "from", "", "pin the request to one provider (id or name)")
	return cmd
}

// addProviderCommands registers one command per enabled provider, keyed by
// its normalized name. Keys that collide with a built-in command are
// skipped.
func (c *CLI) addProviderCommands(root *cobra.Command, table provider.CommandTable) {
	root.AddGroup(&cobra.Group{ID: cdnGroup, Title: "CDN Commands:"})
	taken := make(map[string]bool)
	for _, sub := range root.Commands() {
		taken[sub.Name()] = true
		for _, a := range sub.Aliases {
			taken[a] = true
		}
	}
	for _, pc := range table.List() {
		if taken[pc.Key] {
			c.Logger.Debug("provider command shadowed", "key", pc.Key, "provider", pc.Provider)
			continue
		}
		root.AddCommand(c.providerCommand(pc))
	}
}

func (c *CLI) providerCommand(pc provider.Command) *cobra.Command {
	var flags importFlags
	short := fmt.Sprintf("Import from %s", pc.Provider)
	if pc.Accepts(provider.Module) {
		short += " (JS, CSS, ESM)"
	} else {
		short += " (JS, CSS)"
	}
	cmd := &cobra.Command{
		Use:     pc.Key + " <package>[@version] [version]",
		Short:   short,
		GroupID: cdnGroup,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), pc.Key, true, args, &flags)
		},
	}
	flags.register(cmd, pc.Accepts(provider.Module))
	return cmd
}

// runImport executes one request. A non-empty selector pins the provider;
// dispatch selects it through the command table.
func (c *CLI) runImport(ctx context.Context, selector string, dispatch bool, args []string, flags *importFlags) error {
	s, err := c.openServices(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	loader, err := flags.loader()
	if err != nil {
		return err
	}

	req := importer.Request{Spec: args[0], Kind: flags.kind()}
	if len(args) > 1 {
		req.Version = args[1]
	}

	rec := &notify.Recorder{}
	imp := c.newImporter(s, loader, rec)
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinner(ctx, fmt.Sprintf("Importing %s...", args[0]))
	spinner.Start()
	var out importer.Outcome
	switch {
	case selector == "":
		out = imp.Import(ctx, req)
	case dispatch:
		out = imp.Dispatch(ctx, provider.Commands(s.holder.Get()), selector, req)
	default:
		out = imp.ImportFrom(ctx, selector, req)
	}
	spinner.Stop()

	printMessages(rec.Messages())
	printOutcome(out)
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrReported, out.Error)
	}
	prog.done(fmt.Sprintf("Imported %s@%s", out.Name, out.Version))
	return nil
}
