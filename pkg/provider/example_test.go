package provider_test

import (
	"fmt"

	"github.com/matzehuels/cdnfetch/pkg/provider"
)

func ExampleBuildURL() {
	url := provider.BuildURL("https://cdn.jsdelivr.net/npm/{package}@{version}", "lodash", "4.17.21")
	fmt.Println(url)
	// Output:
	// https://cdn.jsdelivr.net/npm/lodash@4.17.21
}

func ExampleEnabled() {
	cfg := provider.DefaultConfig()
	for _, p := range provider.Enabled(cfg) {
		fmt.Println(p.Priority, p.Name)
	}
	// Output:
	// 1 jsDelivr
	// 2 unpkg
	// 3 esm.sh
	// 4 Skypack
}

func ExampleResolveCommand() {
	table := provider.Commands(provider.DefaultConfig())
	cmd, ok := provider.ResolveCommand(table, "esm.sh")
	fmt.Println(ok, cmd.ProviderID, cmd.Accepts(provider.Module))
	// Output:
	// true esm true
}
