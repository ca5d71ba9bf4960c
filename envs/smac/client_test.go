package smac

import (
	"errors"
	"strings"
	"testing"
)

// a port nothing listens on
const deadAddr = "127.0.0.1:1"

func TestProbeUnreachable(t *testing.T) {
	av := Probe(deadAddr)
	if av.Available {
		t.Fatal("probe of a dead address reported available")
	}
	if av.Reason == "" {
		t.Error("unavailable probe must carry a reason")
	}
}

func TestAvailableEnvsEmptyWithoutBridge(t *testing.T) {
	envs := AvailableEnvs(deadAddr)
	if len(envs) != 0 {
		t.Errorf("catalog should be empty, got %v", envs)
	}
}

func TestConnectDependencyMissing(t *testing.T) {
	_, err := Connect(deadAddr, Config{MapName: "8m"})
	if !errors.Is(err, ErrDependencyMissing) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), ProjectURL) {
		t.Errorf("error should carry the installation hint, got %q", err)
	}
}

func TestConnectNeedsMapName(t *testing.T) {
	if _, err := Connect(deadAddr, Config{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v", err)
	}
}
