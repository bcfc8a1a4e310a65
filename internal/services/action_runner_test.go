package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanzas/internal/core"
)

func TestGetActionRunner(t *testing.T) {
	tests := []struct {
		kind     core.ActionKind
		expected ActionRunner
		wantErr  bool
	}{
		{core.ActionSavings, SavingsRunner{}, false},
		{core.ActionDebt, DebtRunner{}, false},
		{"loan", nil, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r, err := GetActionRunner(tt.kind)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidActionKind) {
					t.Errorf("expected ErrInvalidActionKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r != tt.expected {
				t.Errorf("got %T, want %T", r, tt.expected)
			}
		})
	}
}

type countingRunner struct{ runs int }

func (c *countingRunner) Run(context.Context, ActionWriter, core.ScheduledAction, time.Time) error {
	c.runs++
	return nil
}

func TestRegisterActionRunner(t *testing.T) {
	const kind core.ActionKind = "test-kind"
	custom := &countingRunner{}
	RegisterActionRunner(kind, custom)
	t.Cleanup(func() { delete(actionRunners, kind) })

	r, err := GetActionRunner(kind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = r.Run(context.Background(), nil, core.ScheduledAction{}, time.Now())
	if custom.runs != 1 {
		t.Errorf("custom runner was not used")
	}
}
