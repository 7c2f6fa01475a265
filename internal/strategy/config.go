package strategy

import (
	"fmt"

	"github.com/dreamware/rpcdispatch/internal/transport"
)

// NodeConfig is the YAML-decodable description of one node in a strategy
// tree. Only the fields relevant to Kind are populated; the others are
// left zero.
//
// Example YAML:
//
//	kind: firstAvailable
//	children:
//	  - kind: roundRobin
//	    children:
//	      - kind: single
//	        address: {host: 10.0.0.1, port: 9000}
//	      - kind: single
//	        address: {host: 10.0.0.2, port: 9000}
//	  - kind: single
//	    address: {host: 10.0.0.3, port: 9000}
type NodeConfig struct {
	// Kind selects the strategy constructor: "single", "firstAvailable",
	// "roundRobin", "randomSampled", "sharding", "rendezvousHashing",
	// "typeDispatch", or "firstValidResult".
	Kind string `yaml:"kind"`

	// Address is used when Kind == "single".
	Address *transport.Address `yaml:"address,omitempty"`

	// Children lists sub-strategies for firstAvailable, roundRobin,
	// sharding, and firstValidResult.
	Children []NodeConfig `yaml:"children,omitempty"`

	// Weights parallels Children for "randomSampled"; Weights[i] is the
	// sampling weight of Children[i].
	Weights []int `yaml:"weights,omitempty"`

	// Buckets is used when Kind == "rendezvousHashing"; each entry's ID
	// becomes the bucket identity and Node the sub-strategy it routes to.
	Buckets []BucketConfig `yaml:"buckets,omitempty"`

	// Mapping is used when Kind == "typeDispatch", keyed by type tag.
	Mapping map[string]NodeConfig `yaml:"mapping,omitempty"`

	// Default is the optional fallback sub-strategy for "typeDispatch".
	Default *NodeConfig `yaml:"default,omitempty"`

	// MinActive configures minActiveSubStrategies for "sharding" and
	// "firstValidResult"; 0 means use the constructor's default of 1.
	MinActive int `yaml:"min_active,omitempty"`

	// RequireAllMapped configures WithRequireAllMapped for "typeDispatch".
	RequireAllMapped bool `yaml:"require_all_mapped,omitempty"`

	// NoValidResultError, when non-empty, becomes the error message
	// surfaced by "firstValidResult" when no child produces a valid
	// result.
	NoValidResultError string `yaml:"no_valid_result_error,omitempty"`
}

// BucketConfig is one rendezvous-hashing bucket entry in YAML.
type BucketConfig struct {
	ID   string     `yaml:"id"`
	Node NodeConfig `yaml:"node"`
}

// Funcs bundles the key-extraction and scoring functions a config-built
// strategy tree needs but that YAML cannot express: sharding and
// rendezvous hash functions, the type-dispatch tag function, and the
// firstValidResult validator. Callers supply these once per request/
// response type pair; BuildFromConfig wires them into whichever nodes of
// the tree need them.
type Funcs[Req any, Res any] struct {
	ShardFn   ShardFn[Req]
	HashFn    HashFn[Req]
	ScoreFn   BucketScoreFn
	TypeFn    TypeFn[Req]
	Validator ResultValidator[Res]
}

// BuildFromConfig recursively builds a Strategy tree from cfg, the way the
// engine's demo commands load a tree from a YAML file instead of
// hardcoding Go literals.
func BuildFromConfig[Req any, Res any](cfg NodeConfig, funcs Funcs[Req, Res]) (Strategy[Req, Res], error) {
	switch cfg.Kind {
	case "single":
		if cfg.Address == nil {
			return nil, fmt.Errorf("rpcdispatch: single node requires address")
		}
		return Single[Req, Res](*cfg.Address), nil

	case "firstAvailable":
		children, err := buildChildren(cfg.Children, funcs)
		if err != nil {
			return nil, err
		}
		return FirstAvailable(children...), nil

	case "roundRobin":
		children, err := buildChildren(cfg.Children, funcs)
		if err != nil {
			return nil, err
		}
		return RoundRobin(children...), nil

	case "randomSampled":
		if len(cfg.Weights) != len(cfg.Children) {
			return nil, fmt.Errorf("rpcdispatch: randomSampled requires one weight per child")
		}
		weighted := make([]WeightedChild[Req, Res], len(cfg.Children))
		for i, childCfg := range cfg.Children {
			child, err := BuildFromConfig(childCfg, funcs)
			if err != nil {
				return nil, err
			}
			weighted[i] = WeightedChild[Req, Res]{Strategy: child, Weight: cfg.Weights[i]}
		}
		return RandomSampled(weighted...), nil

	case "sharding":
		if funcs.ShardFn == nil {
			return nil, fmt.Errorf("rpcdispatch: sharding requires a ShardFn")
		}
		children, err := buildChildren(cfg.Children, funcs)
		if err != nil {
			return nil, err
		}
		var opts []ShardingOption[Req, Res]
		if cfg.MinActive > 0 {
			opts = append(opts, WithMinActiveSubStrategies[Req, Res](cfg.MinActive))
		}
		return Sharding(funcs.ShardFn, children, opts...), nil

	case "rendezvousHashing":
		if funcs.HashFn == nil {
			return nil, fmt.Errorf("rpcdispatch: rendezvousHashing requires a HashFn")
		}
		scoreFn := funcs.ScoreFn
		if scoreFn == nil {
			scoreFn = RendezvousScoreByHash
		}
		buckets := make([]Bucket[Req, Res], len(cfg.Buckets))
		for i, bucketCfg := range cfg.Buckets {
			child, err := BuildFromConfig(bucketCfg.Node, funcs)
			if err != nil {
				return nil, err
			}
			buckets[i] = Bucket[Req, Res]{ID: bucketCfg.ID, Strategy: child}
		}
		return RendezvousHashing(funcs.HashFn, scoreFn, buckets...), nil

	case "typeDispatch":
		if funcs.TypeFn == nil {
			return nil, fmt.Errorf("rpcdispatch: typeDispatch requires a TypeFn")
		}
		mapping := make(map[string]Strategy[Req, Res], len(cfg.Mapping))
		for tag, childCfg := range cfg.Mapping {
			child, err := BuildFromConfig(childCfg, funcs)
			if err != nil {
				return nil, err
			}
			mapping[tag] = child
		}
		var opts []TypeDispatchOption[Req, Res]
		if cfg.Default != nil {
			def, err := BuildFromConfig(*cfg.Default, funcs)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithDefault(def))
		}
		if cfg.RequireAllMapped {
			opts = append(opts, WithRequireAllMapped[Req, Res]())
		}
		return TypeDispatch(funcs.TypeFn, mapping, opts...), nil

	case "firstValidResult":
		children, err := buildChildren(cfg.Children, funcs)
		if err != nil {
			return nil, err
		}
		var opts []FirstValidResultOption[Req, Res]
		if funcs.Validator != nil {
			opts = append(opts, WithResultValidator(funcs.Validator))
		}
		if cfg.NoValidResultError != "" {
			opts = append(opts, WithNoValidResultError[Req, Res](fmt.Errorf("%s", cfg.NoValidResultError)))
		}
		if cfg.MinActive > 0 {
			opts = append(opts, WithFVRMinActiveSubStrategies[Req, Res](cfg.MinActive))
		}
		return FirstValidResult(children, opts...), nil

	default:
		return nil, fmt.Errorf("rpcdispatch: unknown strategy kind %q", cfg.Kind)
	}
}

func buildChildren[Req any, Res any](cfgs []NodeConfig, funcs Funcs[Req, Res]) ([]Strategy[Req, Res], error) {
	children := make([]Strategy[Req, Res], len(cfgs))
	for i, c := range cfgs {
		child, err := BuildFromConfig(c, funcs)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}
