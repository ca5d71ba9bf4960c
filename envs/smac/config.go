package smac

import "fmt"

// DefaultBridgeAddr is where a locally started bridge listens.
const DefaultBridgeAddr = "127.0.0.1:9432"

// Config carries the construction parameters of a wrapper. Either a
// pre-built Client is injected, or a MapName selects a scenario to create on
// the bridge. The seed is fixed at construction and immutable afterwards.
type Config struct {
	// Client is a pre-built binding to an environment instance. When set,
	// MapName and BridgeAddr are ignored.
	Client Client

	// MapName is the scenario identifier, e.g. "8m" or "3s5z".
	MapName string

	// BridgeAddr is the bridge host:port; DefaultBridgeAddr when empty.
	BridgeAddr string

	// Seed for the environment. Cannot be changed once the environment
	// exists.
	Seed int64

	// Device tag stamped onto produced records.
	Device string

	// Options are forwarded verbatim to the bridge when the environment is
	// created there.
	Options map[string]interface{}
}

func (c Config) validate() error {
	if c.Client == nil && c.MapName == "" {
		return fmt.Errorf("%w: either a pre-built Client or a MapName is required", ErrConfiguration)
	}
	return nil
}

func (c Config) bridgeAddr() string {
	if c.BridgeAddr == "" {
		return DefaultBridgeAddr
	}
	return c.BridgeAddr
}
