package memory

import (
	"fmt"
	"os"

	bridgePkg "github.com/KeynihAV/mtbridge/pkg/bridge"
	"gopkg.in/yaml.v3"
)

type Fixtures struct {
	Terminal      bridgePkg.TerminalInfo `yaml:"terminal"`
	Symbols       []SymbolFixture        `yaml:"symbols"`
	Orders        []bridgePkg.Order      `yaml:"orders"`
	HistoryOrders []bridgePkg.Order      `yaml:"history_orders"`
	Deals         []bridgePkg.Deal       `yaml:"deals"`
	Positions     []bridgePkg.Position   `yaml:"positions"`
}

type SymbolFixture struct {
	bridgePkg.SymbolInfo `yaml:",inline"`
	Selected             bool `yaml:"selected"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %v: %w", path, err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	f := &Fixtures{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Symbols))
	for i, s := range f.Symbols {
		if s.Symbol == "" {
			return nil, fmt.Errorf("fixtures: symbol %d has no name", i)
		}
		if _, ok := seen[s.Symbol]; ok {
			return nil, fmt.Errorf("fixtures: duplicate symbol %v", s.Symbol)
		}
		seen[s.Symbol] = struct{}{}
	}
	return f, nil
}
