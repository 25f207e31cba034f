package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"wsnelect/pkg/prasle"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "node.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadBullyConfig(t *testing.T) {
	path := writeTemp(t, `
protocol: bully
node:
  identity: static
  staticId: 3
bully:
  electionTimeoutSeconds: 5
  coordinatorTimeoutSeconds: 20
  aliveIntervalSeconds: 8
  randomDelayMaxSeconds: 5
  maxNodes: 16
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Protocol != "bully" {
		t.Errorf("protocol = %q, want bully", cfg.Protocol)
	}
	if cfg.Node.StaticID != 3 {
		t.Errorf("staticId = %d, want 3", cfg.Node.StaticID)
	}
	if cfg.Bully.ElectionTimeout() != 5*time.Second {
		t.Errorf("election timeout = %v, want 5s", cfg.Bully.ElectionTimeout())
	}
}

func TestLoadPrasleConfigTopology(t *testing.T) {
	path := writeTemp(t, `
protocol: prasle
node:
  identity: hostname
prasle:
  kRounds: 4
  tSeconds: 1
  nMax: 20
  networkTopology: mesh
  networkSize: 20
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Topology() != prasle.TopologyMesh {
		t.Errorf("topology = %v, want mesh", cfg.Topology())
	}
	if cfg.Prasle.RoundDuration() != time.Second {
		t.Errorf("round duration = %v, want 1s", cfg.Prasle.RoundDuration())
	}
}

func TestValidateRejectsUnknownProtocol(t *testing.T) {
	path := writeTemp(t, "protocol: raft\nnode:\n  identity: static\n  staticId: 1\n")
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown protocol")
	}
}

func TestValidateRejectsStaticIdentityWithoutID(t *testing.T) {
	path := writeTemp(t, "protocol: bully\nnode:\n  identity: static\n")
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for static identity with no staticId")
	}
}

func TestValidateRejectsUnknownIdentity(t *testing.T) {
	path := writeTemp(t, "protocol: bully\nnode:\n  identity: dhcp\n")
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown identity source")
	}
}

func TestValidateRejectsZeroBullyTimers(t *testing.T) {
	path := writeTemp(t, `
protocol: bully
node:
  identity: static
  staticId: 1
bully:
  coordinatorTimeoutSeconds: 20
  aliveIntervalSeconds: 8
`)
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for missing electionTimeoutSeconds")
	}
}

func TestValidateRejectsZeroPrasleKRounds(t *testing.T) {
	path := writeTemp(t, `
protocol: prasle
node:
  identity: hostname
prasle:
  tSeconds: 1
  networkSize: 10
`)
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for missing kRounds")
	}
}
