package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/cdnfetch/pkg/errors"
)

// Direction moves a provider one slot up or down in priority order.
type Direction int

const (
	Up Direction = iota
	Down
)

// Toggle flips the enabled flag of the provider with id. Disabling the last
// enabled provider is refused.
func (c *Config) Toggle(id string) error {
	i := c.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeProviderNotFound, "provider '%s' not found", id)
	}
	if c.Providers[i].Enabled && c.enabledCount() <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one CDN source must be enabled")
	}
	c.Providers[i].Enabled = !c.Providers[i].Enabled
	return nil
}

// SetEnabled enables or disables the provider with id, with the same
// at-least-one-enabled rule as [Config.Toggle].
func (c *Config) SetEnabled(id string, enabled bool) error {
	i := c.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeProviderNotFound, "provider '%s' not found", id)
	}
	if c.Providers[i].Enabled == enabled {
		return nil
	}
	return c.Toggle(id)
}

// Move swaps the provider with its neighbour and renumbers all priorities
// 1..n in list order. Moving past either end is a no-op.
func (c *Config) Move(id string, dir Direction) error {
	i := c.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeProviderNotFound, "provider '%s' not found", id)
	}
	switch {
	case dir == Up && i > 0:
		c.Providers[i], c.Providers[i-1] = c.Providers[i-1], c.Providers[i]
	case dir == Down && i < len(c.Providers)-1:
		c.Providers[i], c.Providers[i+1] = c.Providers[i+1], c.Providers[i]
	}
	for j := range c.Providers {
		c.Providers[j].Priority = j + 1
	}
	return nil
}

// AddCustom appends a user-defined provider. It is enabled, placed last,
// does not claim ES-module support and gets a "custom-" id when none is set.
func (c *Config) AddCustom(d Definition) (Definition, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Definition{}, errors.New(errors.ErrCodeInvalidConfig, "custom provider needs a name")
	}
	if err := errors.ValidateTemplate(d.JSTemplate); err != nil {
		return Definition{}, err
	}
	if d.CSSTemplate == "" {
		d.CSSTemplate = d.JSTemplate
	} else if err := errors.ValidateTemplate(d.CSSTemplate); err != nil {
		return Definition{}, err
	}
	if d.ID == "" {
		d.ID = fmt.Sprintf("custom-%d", time.Now().UnixMilli())
	}
	if c.index(d.ID) >= 0 {
		return Definition{}, errors.New(errors.ErrCodeInvalidConfig, "provider id '%s' already exists", d.ID)
	}
	if d.Description == "" {
		d.Description = "Custom CDN source"
	}
	if d.Region == "" {
		d.Region = RegionGlobal
	}
	d.Enabled = true
	d.Priority = len(c.Providers) + 1
	c.Providers = append(c.Providers, d)
	return d, nil
}

// Remove deletes the provider with id. Removing the last enabled provider
// is refused.
func (c *Config) Remove(id string) error {
	i := c.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodeProviderNotFound, "provider '%s' not found", id)
	}
	if c.Providers[i].Enabled && c.enabledCount() <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one CDN source must be enabled")
	}
	c.Providers = append(c.Providers[:i], c.Providers[i+1:]...)
	return nil
}

// Validate checks ids are unique and templates are well formed.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "provider %q has no id", p.Name)
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
		if err := errors.ValidateTemplate(p.JSTemplate); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "provider %q", p.ID)
		}
	}
	return nil
}

func (c *Config) index(id string) int {
	for i, p := range c.Providers {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c *Config) enabledCount() int {
	n := 0
	for _, p := range c.Providers {
		if p.Enabled {
			n++
		}
	}
	return n
}
