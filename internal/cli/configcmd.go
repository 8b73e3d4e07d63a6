package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cdnfetch/pkg/config"
	"github.com/matzehuels/cdnfetch/pkg/provider"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit global settings",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configResetCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.openConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer h.Store().Close()
			printSettings(h.Get())
			printDetail("Store: %s", h.Store().Location())
			return nil
		},
	}
}

// settingKeys lists the keys accepted by "config set".
var settingKeys = []string{"auto-fallback", "notifications", "cache", "cache-ttl", "default-provider"}

func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting (" + strings.Join(settingKeys, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settingKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.openConfig(ctx)
			if err != nil {
				return err
			}
			defer h.Store().Close()

			if err := h.Update(ctx, func(cfg *provider.Config) error {
				return applySetting(cfg, args[0], args[1])
			}); err != nil {
				return err
			}
			printSuccess("Set %s = %s", args[0], args[1])
			return nil
		},
	}
}

// applySetting parses value and stores it under key.
func applySetting(cfg *provider.Config, key, value string) error {
	switch key {
	case "auto-fallback", "notifications", "cache":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		switch key {
		case "auto-fallback":
			cfg.AutoFallback = b
		case "notifications":
			cfg.ShowNotifications = b
		default:
			cfg.CacheEnabled = b
		}
	case "cache-ttl":
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		cfg.CacheTTL = d
	case "default-provider":
		if _, ok := provider.Find(cfg.Providers, value); !ok {
			return fmt.Errorf("unknown provider %q", value)
		}
		cfg.DefaultProvider = value
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingKeys, ", "))
	}
	return nil
}

// parseDuration accepts a Go duration or a bare number of seconds.
func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		value = strconv.Itoa(secs) + "s"
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where settings are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.store != "" {
				fmt.Println(c.store)
				return nil
			}
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func (c *CLI) configResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in providers and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := c.openConfig(ctx)
			if err != nil {
				return err
			}
			defer h.Store().Close()
			if err := h.Update(ctx, func(cfg *provider.Config) error {
				*cfg = *provider.DefaultConfig()
				return nil
			}); err != nil {
				return err
			}
			printSuccess("Configuration reset to defaults")
			return nil
		},
	}
}

func printSettings(cfg *provider.Config) {
	printKeyValue("Default provider", cfg.DefaultProvider)
	printKeyValue("Auto fallback", strconv.FormatBool(cfg.AutoFallback))
	printKeyValue("Notifications", strconv.FormatBool(cfg.ShowNotifications))
	printKeyValue("Cache", strconv.FormatBool(cfg.CacheEnabled))
	printKeyValue("Cache TTL", cfg.CacheTTL.String())
	printKeyValue("Providers", fmt.Sprintf("%d (%d enabled)", len(cfg.Providers), len(provider.Enabled(cfg))))
}
