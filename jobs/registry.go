package jobs

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/naraya/pool-http-service/common"
	"github.com/naraya/pool-http-service/common/work"
)

// Creator builds a work.Job from a raw JSON payload. The job ID is
// assigned by the caller so state tracking and the job share one ID.
type Creator func(jobID string, payload json.RawMessage) (work.Job, error)

var (
	registry     = make(map[string]Creator)
	registryLock sync.RWMutex
)

// Register registers a job creator function for a specific kind
func Register(kind string, creator Creator) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[kind] = creator
}

// GetRegistry returns a copy of the job kind registry
func GetRegistry() map[string]Creator {
	registryLock.RLock()
	defer registryLock.RUnlock()

	registryCopy := make(map[string]Creator, len(registry))
	maps.Copy(registryCopy, registry)

	return registryCopy
}

// Kinds returns the names of all registered job kinds
func Kinds() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	kinds := make([]string, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Create builds a job of the given kind from its payload.
func Create(kind, jobID string, payload json.RawMessage) (work.Job, error) {
	registryLock.RLock()
	creator, ok := registry[kind]
	registryLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownJobKind, kind)
	}

	return creator(jobID, payload)
}
