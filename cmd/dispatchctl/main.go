// Command dispatchctl is a tiny introspection tool: it parses a strategy
// tree YAML config and prints the static address set the tree may ever
// target, without compiling against a live pool. Useful as a pool
// warm-up dry run before a dispatchbench run or a real deployment.
//
// Usage:
//
//	dispatchctl -config strategy.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dreamware/rpcdispatch/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "path to a strategy tree YAML file")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "dispatchctl: -config is required")
		os.Exit(1)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "dispatchctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	var cfg strategy.NodeConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return errors.Wrap(err, "parsing config")
	}

	// Request/response types are irrelevant to Addresses(), so the
	// introspection tool instantiates the tree against string/string and
	// never touches a live pool.
	tree, err := strategy.BuildFromConfig[string, string](cfg, strategy.Funcs[string, string]{
		ShardFn: func(string) int { return 0 },
		HashFn:  func(string) uint64 { return 0 },
		TypeFn:  func(string) string { return "" },
	})
	if err != nil {
		return errors.Wrap(err, "building strategy tree")
	}

	for _, addr := range tree.Addresses() {
		fmt.Println(addr)
	}
	return nil
}
