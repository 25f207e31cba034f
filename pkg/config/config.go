// Package config loads the static node and protocol configuration surface
// from a YAML file: identity selection, protocol choice, and per-protocol
// timer/topology tunables. None of it is read at runtime by the protocol
// cores themselves — they take plain Go structs — this package only exists
// to get those structs populated once at process startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"wsnelect/pkg/prasle"
)

// IdentitySource names how a node derives its own NodeID.
type IdentitySource string

const (
	IdentityStatic   IdentitySource = "static"
	IdentityHostname IdentitySource = "hostname"
	IdentityEC2      IdentitySource = "ec2"
)

// Node describes the identity portion of the configuration surface.
type Node struct {
	Identity IdentitySource `yaml:"identity"`
	StaticID uint16         `yaml:"staticId"`
}

// BullyConfig mirrors the Bully row of the configuration surface table.
// Durations are expressed in whole seconds on the wire — yaml.v2 has no
// hook for time.Duration's string form, so the YAML schema stays plain
// integers and callers convert via the Duration() helpers below.
type BullyConfig struct {
	ElectionTimeoutSeconds    int `yaml:"electionTimeoutSeconds"`
	CoordinatorTimeoutSeconds int `yaml:"coordinatorTimeoutSeconds"`
	AliveIntervalSeconds      int `yaml:"aliveIntervalSeconds"`
	RandomDelayMaxSeconds     int `yaml:"randomDelayMaxSeconds"`
	MaxNodes                  int `yaml:"maxNodes"`
}

func (b BullyConfig) ElectionTimeout() time.Duration    { return seconds(b.ElectionTimeoutSeconds) }
func (b BullyConfig) CoordinatorTimeout() time.Duration { return seconds(b.CoordinatorTimeoutSeconds) }
func (b BullyConfig) AliveInterval() time.Duration      { return seconds(b.AliveIntervalSeconds) }
func (b BullyConfig) RandomDelayMax() time.Duration     { return seconds(b.RandomDelayMaxSeconds) }

// RingConfig mirrors the Ring row of the configuration surface table.
type RingConfig struct {
	RingSize                  int `yaml:"ringSize"`
	ElectionTimeoutSeconds    int `yaml:"electionTimeoutSeconds"`
	CoordinatorTimeoutSeconds int `yaml:"coordinatorTimeoutSeconds"`
	AliveIntervalSeconds      int `yaml:"aliveIntervalSeconds"`
	RandomDelayMaxSeconds     int `yaml:"randomDelayMaxSeconds"`
}

func (r RingConfig) ElectionTimeout() time.Duration    { return seconds(r.ElectionTimeoutSeconds) }
func (r RingConfig) CoordinatorTimeout() time.Duration { return seconds(r.CoordinatorTimeoutSeconds) }
func (r RingConfig) AliveInterval() time.Duration      { return seconds(r.AliveIntervalSeconds) }
func (r RingConfig) RandomDelayMax() time.Duration     { return seconds(r.RandomDelayMaxSeconds) }

// PrasleConfig mirrors the PraSLE row of the configuration surface table.
type PrasleConfig struct {
	KRounds               int    `yaml:"kRounds"`
	TSeconds              int    `yaml:"tSeconds"`
	NMax                  int    `yaml:"nMax"`
	NetworkTopology       string `yaml:"networkTopology"`
	NetworkSize           int    `yaml:"networkSize"`
	RandomDelayMaxSeconds int    `yaml:"randomDelayMaxSeconds"`
}

func (p PrasleConfig) RoundDuration() time.Duration  { return seconds(p.TSeconds) }
func (p PrasleConfig) RandomDelayMax() time.Duration { return seconds(p.RandomDelayMaxSeconds) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Config is the root document loaded from a node's YAML configuration
// file.
type Config struct {
	Protocol string       `yaml:"protocol"` // "bully", "ring", or "prasle"
	Node     Node         `yaml:"node"`
	Bully    BullyConfig  `yaml:"bully"`
	Ring     RingConfig   `yaml:"ring"`
	Prasle   PrasleConfig `yaml:"prasle"`
}

// ValidationError reports a malformed configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// LoadFromFile reads and validates a single YAML configuration document.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the document names a known protocol and a known
// identity source.
func (c *Config) Validate() error {
	switch c.Protocol {
	case "bully", "ring", "prasle":
	default:
		return ValidationError{"protocol", fmt.Sprintf("must be bully, ring, or prasle, got %q", c.Protocol)}
	}

	switch c.Node.Identity {
	case IdentityStatic, IdentityHostname, IdentityEC2:
	default:
		return ValidationError{"node.identity", fmt.Sprintf("must be static, hostname, or ec2, got %q", c.Node.Identity)}
	}

	if c.Node.Identity == IdentityStatic && c.Node.StaticID == 0 {
		return ValidationError{"node.staticId", "must be >= 1 when identity is static"}
	}

	switch c.Protocol {
	case "bully":
		if c.Bully.ElectionTimeoutSeconds < 1 {
			return ValidationError{"bully.electionTimeoutSeconds", "must be >= 1"}
		}
		if c.Bully.CoordinatorTimeoutSeconds < 1 {
			return ValidationError{"bully.coordinatorTimeoutSeconds", "must be >= 1"}
		}
		if c.Bully.AliveIntervalSeconds < 1 {
			return ValidationError{"bully.aliveIntervalSeconds", "must be >= 1"}
		}
	case "ring":
		if c.Ring.ElectionTimeoutSeconds < 1 {
			return ValidationError{"ring.electionTimeoutSeconds", "must be >= 1"}
		}
		if c.Ring.CoordinatorTimeoutSeconds < 1 {
			return ValidationError{"ring.coordinatorTimeoutSeconds", "must be >= 1"}
		}
		if c.Ring.AliveIntervalSeconds < 1 {
			return ValidationError{"ring.aliveIntervalSeconds", "must be >= 1"}
		}
	case "prasle":
		switch c.Prasle.NetworkTopology {
		case "ring", "line", "mesh", "clique", "":
		default:
			return ValidationError{"prasle.networkTopology", fmt.Sprintf("unknown topology %q", c.Prasle.NetworkTopology)}
		}
		if c.Prasle.KRounds < 1 {
			return ValidationError{"prasle.kRounds", "must be >= 1"}
		}
		if c.Prasle.TSeconds < 1 {
			return ValidationError{"prasle.tSeconds", "must be >= 1"}
		}
	}

	return nil
}

// Topology parses the PraSLE networkTopology field, defaulting to ring.
func (c *Config) Topology() prasle.Topology {
	switch c.Prasle.NetworkTopology {
	case "line":
		return prasle.TopologyLine
	case "mesh":
		return prasle.TopologyMesh
	case "clique":
		return prasle.TopologyClique
	default:
		return prasle.TopologyRing
	}
}
