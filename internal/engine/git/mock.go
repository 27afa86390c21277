package git

import (
	"context"
	"strings"
)

// MockRunner is a test double for Runner with scripted responses.
type MockRunner struct {
	// Responses maps a space-joined argument list to a canned Result.
	Responses map[string]Result
	// Errs maps a space-joined argument list to an error.
	Errs map[string]error
	// Default is returned for argument lists with no entry in Responses.
	Default Result
	// Calls records every argument list in invocation order.
	Calls [][]string
	// Envs records the env overrides passed with each call.
	Envs []map[string]string
}

// Run returns the scripted response for the given argument list.
func (m *MockRunner) Run(_ context.Context, env map[string]string, args ...string) (Result, error) {
	m.Calls = append(m.Calls, args)
	m.Envs = append(m.Envs, env)

	key := strings.Join(args, " ")
	if err, ok := m.Errs[key]; ok {
		return Result{}, err
	}
	if res, ok := m.Responses[key]; ok {
		return res, nil
	}
	return m.Default, nil
}

// Called reports whether any recorded call starts with the given prefix.
func (m *MockRunner) Called(prefix ...string) bool {
	for _, call := range m.Calls {
		if len(call) < len(prefix) {
			continue
		}
		match := true
		for i, p := range prefix {
			if call[i] != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
