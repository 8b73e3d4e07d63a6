package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/bridge"
	"github.com/matzehuels/cdnfetch/pkg/buildinfo"
	"github.com/matzehuels/cdnfetch/pkg/cache"
	"github.com/matzehuels/cdnfetch/pkg/deliver"
	"github.com/matzehuels/cdnfetch/pkg/notify"
	"github.com/matzehuels/cdnfetch/pkg/search"
)

// serveCommand creates the serve command that runs the HTTP bridge.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP bridge",
		Long: `Run the HTTP bridge. Clients POST import requests and receive the URL of the
CDN that served the package, along with the notifications of the request.
Deliveries are verified but not stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openServices(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			// Bridge entries are kept apart from command-line entries.
			svc := search.New(search.Options{
				Config: s.holder.Get,
				Cache:  s.cache,
				Keyer:  cache.NewScopedKeyer(cache.NewDefaultKeyer(), "bridge:"),
				Logger: c.Logger,
			})
			srv := bridge.New(bridge.Options{
				Config:         s.holder.Get,
				Notifier:       notify.NewLogNotifier(c.Logger),
				Loader:         deliver.NewHTTPLoader(nil, deliver.WithUserAgent(buildinfo.UserAgent())),
				Resolver:       s.resolver,
				Search:         svc,
				Logger:         c.Logger,
				AttemptTimeout: c.attemptTTL,
				LegacyParse:    c.legacy,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7878", "listen address")
	return cmd
}
