package provider

import "slices"

// Command is one entry of the per-provider dispatch table.
type Command struct {
	Key        string // normalized provider name, e.g. "esmsh"
	ProviderID string
	Provider   string // display name
	Kinds      []AssetKind
}

// Accepts reports whether the command has a sub-operation for kind.
func (c Command) Accepts(kind AssetKind) bool {
	return slices.Contains(c.Kinds, kind)
}

// CommandTable maps normalized provider names to commands.
type CommandTable struct {
	byKey map[string]Command
	order []string
}

// Commands builds the dispatch table for the enabled providers of cfg.
// Every command accepts scripts and stylesheets; ES-module capable providers
// also accept modules. When two providers normalize to the same key the one
// tried first wins.
func Commands(cfg *Config) CommandTable {
	t := CommandTable{byKey: make(map[string]Command)}
	for _, p := range Enabled(cfg) {
		key := p.MethodName()
		if key == "" {
			continue
		}
		if _, dup := t.byKey[key]; dup {
			continue
		}
		kinds := []AssetKind{Script, Stylesheet}
		if p.SupportESM {
			kinds = append(kinds, Module)
		}
		t.byKey[key] = Command{Key: key, ProviderID: p.ID, Provider: p.Name, Kinds: kinds}
		t.order = append(t.order, key)
	}
	return t
}

// ResolveCommand looks name up in the table. The name is normalized first,
// so "esm.sh" and "esmsh" resolve to the same command.
func ResolveCommand(t CommandTable, name string) (Command, bool) {
	c, ok := t.byKey[NormalizeName(name)]
	return c, ok
}

// List returns the commands in priority order.
func (t CommandTable) List() []Command {
	out := make([]Command, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.byKey[k])
	}
	return out
}

// Len returns the number of commands.
func (t CommandTable) Len() int { return len(t.order) }
