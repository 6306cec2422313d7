package cloud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// Memory is an in-process Client backed by maps. It exists for tests and
// local experimentation; state does not survive the process.
//
// Failure injection hooks (PushErr, UpdateErr, ListErr) let tests simulate
// per-item transfer failures without a network.
type Memory struct {
	mu sync.Mutex

	connected  bool
	nextID     int
	components map[string]*component.Component // keyed by id

	// Status and Changes are returned verbatim by GetSyncStatus and
	// GetChanges. Tests set them up front.
	Status  SyncStatus
	Changes PendingChanges

	// Resolved records ResolveConflict calls by component id.
	Resolved map[string]Resolution

	// Snapshots records CreateSnapshot messages in call order.
	Snapshots []string

	// PushErr, UpdateErr and ListErr, when non-nil, are consulted before
	// the corresponding operation proceeds.
	PushErr   func(c *component.Component) error
	UpdateErr func(id string, c *component.Component) error
	ListErr   error

	// ConnectErr, when non-nil, makes Connect fail.
	ConnectErr error

	// Counters for asserting call sequences.
	PushCalls     int
	UpdateCalls   int
	ListCalls     int
	StatusCalls   int
	ChangesCalls  int
	SnapshotCalls int
}

// NewMemory returns an empty in-memory client.
func NewMemory() *Memory {
	return &Memory{
		components: make(map[string]*component.Component),
		Resolved:   make(map[string]Resolution),
	}
}

// Seed stores a component with a generated id, bypassing the connection
// check. Returns the assigned id.
func (m *Memory) Seed(c *component.Component) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store(c)
}

// store assigns an id and saves a copy. Caller holds the lock.
func (m *Memory) store(c *component.Component) string {
	m.nextID++
	id := fmt.Sprintf("comp-%d", m.nextID)
	cp := *c
	cp.ID = id
	m.components[id] = &cp
	return id
}

// Connect implements Client.Connect.
func (m *Memory) Connect(ctx context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

// Disconnect implements Client.Disconnect. Idempotent.
func (m *Memory) Disconnect() error {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	return nil
}

func (m *Memory) checkConnected() error {
	if !m.connected {
		return ErrNotConnected
	}
	return nil
}

// ListComponents implements Client.ListComponents.
func (m *Memory) ListComponents(ctx context.Context, filter *ListFilter) ([]*component.Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var out []*component.Component
	for _, c := range m.components {
		if matchesFilter(c, filter) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchesFilter(c *component.Component, filter *ListFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Type != "" && c.Type != filter.Type {
		return false
	}
	if filter.Framework != "" && c.Framework != filter.Framework {
		return false
	}
	if len(filter.Tags) > 0 {
		any := false
		for _, tag := range filter.Tags {
			// A component's own name doubles as a lookup tag so pushes
			// can find existing components by name.
			if c.HasTag(tag) || c.Name == tag {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// PushComponent implements Client.PushComponent.
func (m *Memory) PushComponent(ctx context.Context, c *component.Component) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PushCalls++
	if err := m.checkConnected(); err != nil {
		return "", err
	}
	if m.PushErr != nil {
		if err := m.PushErr(c); err != nil {
			return "", err
		}
	}
	return m.store(c), nil
}

// UpdateComponent implements Client.UpdateComponent.
func (m *Memory) UpdateComponent(ctx context.Context, id string, c *component.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if err := m.checkConnected(); err != nil {
		return err
	}
	if m.UpdateErr != nil {
		if err := m.UpdateErr(id, c); err != nil {
			return err
		}
	}
	if _, ok := m.components[id]; !ok {
		return fmt.Errorf("no component with id %s", id)
	}
	cp := *c
	cp.ID = id
	m.components[id] = &cp
	return nil
}

// GetSyncStatus implements Client.GetSyncStatus.
func (m *Memory) GetSyncStatus(ctx context.Context) (*SyncStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StatusCalls++
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	st := m.Status
	return &st, nil
}

// GetChanges implements Client.GetChanges.
func (m *Memory) GetChanges(ctx context.Context) (*PendingChanges, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChangesCalls++
	if err := m.checkConnected(); err != nil {
		return nil, err
	}
	ch := m.Changes
	return &ch, nil
}

// ResolveConflict implements Client.ResolveConflict.
func (m *Memory) ResolveConflict(ctx context.Context, componentID string, resolution Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkConnected(); err != nil {
		return err
	}
	m.Resolved[componentID] = resolution
	return nil
}

// CreateSnapshot implements Client.CreateSnapshot.
func (m *Memory) CreateSnapshot(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SnapshotCalls++
	if err := m.checkConnected(); err != nil {
		return "", err
	}
	m.Snapshots = append(m.Snapshots, message)
	return fmt.Sprintf("snap-%d-%d", len(m.Snapshots), time.Now().Unix()), nil
}

// Get returns a stored component by id, or nil.
func (m *Memory) Get(id string) *component.Component {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.components[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// Len returns the number of stored components.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.components)
}

var _ Client = (*Memory)(nil)
var _ Client = (*HTTPClient)(nil)
