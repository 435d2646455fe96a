package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Scenario names accepted on the command line.
const (
	SmallInLargeOut = "small_in_large_out"
	LargeInSmallOut = "large_in_small_out"
)

var (
	// ErrUnknownScenario is returned for any name other than the two workload shapes.
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrEmptyPrompt is returned when a prompt file holds only whitespace.
	ErrEmptyPrompt = errors.New("prompt file is empty")
)

// Scenario binds a workload shape to its prompt file and output cap.
type Scenario struct {
	Name       string
	PromptFile string
	NumPredict int
}

// ScenarioNames lists the valid scenario names in help order.
func ScenarioNames() []string {
	return []string{SmallInLargeOut, LargeInSmallOut}
}

// Scenario resolves a scenario name against this configuration.
// small_in_large_out always pairs the short prompt with the large cap,
// large_in_small_out the long prompt with the small cap.
func (c *Config) Scenario(name string) (Scenario, error) {
	switch name {
	case SmallInLargeOut:
		return Scenario{Name: name, PromptFile: c.SmallPromptFile, NumPredict: c.OutLarge}, nil
	case LargeInSmallOut:
		return Scenario{Name: name, PromptFile: c.LargePromptFile, NumPredict: c.OutSmall}, nil
	default:
		return Scenario{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownScenario, name, strings.Join(ScenarioNames(), ", "))
	}
}

// LoadPrompt reads the scenario's prompt file, trimmed of surrounding whitespace.
func (s Scenario) LoadPrompt() (string, error) {
	data, err := os.ReadFile(s.PromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file for %s: %w", s.Name, err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyPrompt, s.PromptFile)
	}
	return prompt, nil
}
