package mocks

import (
	"context"
	"fmt"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
)

var _ driven.GenerationService = (*MockGenerationService)(nil)

// MockGenerationService is a mock implementation of GenerationService for
// testing. It echoes back a deterministic answer derived from the user prompt.
type MockGenerationService struct {
	answer   string
	failures []error
	calls    int
	prompts  []string
	systems  []string
}

// NewMockGenerationService creates a new MockGenerationService
func NewMockGenerationService() *MockGenerationService {
	return &MockGenerationService{}
}

func (m *MockGenerationService) Complete(ctx context.Context, system, user string) (string, error) {
	m.calls++
	m.systems = append(m.systems, system)
	m.prompts = append(m.prompts, user)
	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		return "", err
	}
	if m.answer != "" {
		return m.answer, nil
	}
	return fmt.Sprintf("mock answer for prompt of %d chars", len(user)), nil
}

func (m *MockGenerationService) Model() string {
	return "mock-generation-model"
}

func (m *MockGenerationService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockGenerationService) Close() error {
	return nil
}

// Helper methods for testing

// SetAnswer fixes the text returned by Complete.
func (m *MockGenerationService) SetAnswer(answer string) {
	m.answer = answer
}

// QueueFailures makes the next len(errs) Complete calls fail in order.
func (m *MockGenerationService) QueueFailures(errs ...error) {
	m.failures = append(m.failures, errs...)
}

// Calls returns how many Complete calls were made.
func (m *MockGenerationService) Calls() int {
	return m.calls
}

// LastPrompt returns the most recent user prompt, or "" if none.
func (m *MockGenerationService) LastPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// LastSystem returns the most recent system message, or "" if none.
func (m *MockGenerationService) LastSystem() string {
	if len(m.systems) == 0 {
		return ""
	}
	return m.systems[len(m.systems)-1]
}
