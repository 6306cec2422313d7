// Package cloud defines the client contract for the component cloud store.
//
// The cloud store owns the authoritative component catalog, conflict
// detection, and snapshots. This package specifies the session and
// transfer operations the CLI needs; the wire protocol behind them is the
// store's concern, not the caller's. Two implementations exist: an HTTP
// client for the hosted store and an in-memory client for tests.
package cloud

import (
	"context"
	"errors"
	"time"

	"golang.org/x/mod/semver"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// ErrNotConnected is returned by operations invoked before Connect or
// after Disconnect.
var ErrNotConnected = errors.New("cloud client is not connected")

// ConflictType describes how local and remote state diverged.
type ConflictType string

const (
	ConflictBothModified    ConflictType = "both-modified"
	ConflictDeletedModified ConflictType = "deleted-modified"
	ConflictVersionMismatch ConflictType = "version-mismatch"
)

// Resolution is the side chosen to win a conflict.
type Resolution string

const (
	ResolutionLocal  Resolution = "local"
	ResolutionRemote Resolution = "remote"
	ResolutionManual Resolution = "manual"
)

// ChangeAction describes a pending delta.
type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
	ActionDelete ChangeAction = "delete"
)

// Conflict is a detected divergence between local and remote state for
// one component. Conflicts are produced by the sync status query and
// consumed within the same command invocation; they are never persisted
// locally.
type Conflict struct {
	ComponentID   string       `json:"componentId"`
	ComponentName string       `json:"componentName"`
	Type          ConflictType `json:"type"`
	LocalVersion  string       `json:"localVersion"`
	RemoteVersion string       `json:"remoteVersion"`

	// Resolution is set once a side has been chosen.
	Resolution Resolution `json:"resolution,omitempty"`
}

// Change describes one pending local or remote delta. Ephemeral: produced
// per status query, consumed once during a sync pass.
type Change struct {
	ComponentID   string       `json:"componentId"`
	ComponentName string       `json:"componentName"`
	Action        ChangeAction `json:"action"`
	Timestamp     time.Time    `json:"timestamp"`
}

// PendingChanges splits pending deltas by which side produced them.
type PendingChanges struct {
	Local  []Change `json:"local"`
	Remote []Change `json:"remote"`
}

// SyncStatus is a snapshot value object, re-fetched at the start of every
// sync and never cached across invocations.
type SyncStatus struct {
	LastSync  time.Time      `json:"lastSync"`
	Conflicts []Conflict     `json:"conflicts"`
	Pending   PendingChanges `json:"pendingChanges"`
}

// ListFilter narrows a component listing. Zero values mean "no filter"
// for that dimension; dimensions combine with AND, tags match with OR
// within the dimension.
type ListFilter struct {
	Type      component.Type
	Framework component.Framework
	Tags      []string
}

// Client is the session and transfer contract with the cloud store.
//
// Connect must be called before any other operation. Disconnect is
// idempotent and safe to defer unconditionally. All operations are
// blocking and honor context cancellation.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error

	// ListComponents returns the remote catalog, narrowed by filter.
	ListComponents(ctx context.Context, filter *ListFilter) ([]*component.Component, error)

	// PushComponent creates a new remote component and returns the
	// server-assigned id.
	PushComponent(ctx context.Context, c *component.Component) (string, error)

	// UpdateComponent replaces the remote component with the given id.
	UpdateComponent(ctx context.Context, id string, c *component.Component) error

	// GetSyncStatus returns conflicts and pending changes for the
	// workspace.
	GetSyncStatus(ctx context.Context) (*SyncStatus, error)

	// GetChanges returns the pending local/remote deltas.
	GetChanges(ctx context.Context) (*PendingChanges, error)

	// ResolveConflict records the chosen side for a conflict.
	ResolveConflict(ctx context.Context, componentID string, resolution Resolution) error

	// CreateSnapshot records a named server-side checkpoint and returns
	// its id. Callers treat this as fire-and-forget; the id is not
	// stored locally.
	CreateSnapshot(ctx context.Context, message string) (string, error)
}

// CompareVersions orders two component versions semantically.
// Returns -1, 0, or +1 like semver.Compare. Component versions are
// stored without the "v" prefix, so it is added before comparison;
// malformed versions compare lexically as a last resort.
func CompareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
