package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/naraya/pool-http-service/common"
)

func TestCreateUnknownKind(t *testing.T) {
	_, err := Create("no-such-kind", "job-1", nil)
	if !errors.Is(err, common.ErrUnknownJobKind) {
		t.Errorf("Create unknown kind = %v, want ErrUnknownJobKind", err)
	}
}

func TestBuiltinKindsRegistered(t *testing.T) {
	kinds := Kinds()

	for _, want := range []string{KindSleep, KindEcho} {
		if !slices.Contains(kinds, want) {
			t.Errorf("Kinds() = %v, missing %q", kinds, want)
		}
	}
}

func TestCreateSleepJob(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		expectError bool
	}{
		{"valid", `{"duration_ms": 10}`, false},
		{"zero duration", `{"duration_ms": 0}`, true},
		{"negative duration", `{"duration_ms": -5}`, true},
		{"too long", `{"duration_ms": 999999999}`, true},
		{"malformed", `{"duration_ms": "ten"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := Create(KindSleep, "sleep-job", json.RawMessage(tt.payload))
			if tt.expectError {
				if !errors.Is(err, common.ErrInvalidPayload) {
					t.Errorf("Expected ErrInvalidPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if job.ID() != "sleep-job" {
				t.Errorf("ID() = %q, want %q", job.ID(), "sleep-job")
			}
		})
	}
}

func TestCreateEchoJob(t *testing.T) {
	job, err := Create(KindEcho, "echo-job", json.RawMessage(`{"message": "hello"}`))
	if err != nil {
		t.Fatal(err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

func TestCreateEchoJobRequiresMessage(t *testing.T) {
	_, err := Create(KindEcho, "echo-job", json.RawMessage(`{}`))
	if !errors.Is(err, common.ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload, got %v", err)
	}
}
