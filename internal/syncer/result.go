// Package syncer implements the push, pull, and sync engines that move
// components between the local workspace and the cloud store.
//
// The engines are sequential by design: each item in a batch completes
// its network call before the next starts, in discovery order. They hold
// no state across invocations; every run re-derives status from the
// store. Commands own the cloud connection lifecycle and pass a
// connected client in.
package syncer

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engines. Commands translate these into
// exit behavior; the engines never call os.Exit themselves.
var (
	// ErrCancelled means the user deliberately aborted an interactive
	// flow. Commands treat it as a clean exit, not a failure.
	ErrCancelled = errors.New("cancelled by user")

	// ErrConflictsDetected aborts a push before any upload happens.
	ErrConflictsDetected = errors.New("conflicts detected, push aborted")

	// ErrMergeNotImplemented is returned by the merge resolution
	// strategy. Callers must handle it explicitly; the sync engine falls
	// back to keep-local with a warning.
	ErrMergeNotImplemented = errors.New("merge strategy is not implemented")

	// ErrNotInteractive means a prompt was required but no terminal is
	// attached.
	ErrNotInteractive = errors.New("interactive prompt required but no terminal is attached")
)

// ItemStatus is the per-item outcome of a transfer batch.
type ItemStatus string

const (
	StatusSuccess ItemStatus = "success"
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// ItemResult records the outcome for one component in a batch. Every
// attempted item produces exactly one result.
type ItemResult struct {
	Name   string
	Path   string
	Status ItemStatus

	// Err holds the failure message for StatusError items.
	Err string
}

// Summary tallies a result list.
type Summary struct {
	Success int
	Skipped int
	Errors  int
}

// Summarize counts results by status.
func Summarize(results []ItemResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Success++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// String renders the summary line used by all three commands.
func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed", s.Success, s.Skipped, s.Errors)
}

// CollisionChoice is the global decision when pulled files already exist
// locally.
type CollisionChoice int

const (
	CollisionSkipAll CollisionChoice = iota
	CollisionOverwriteAll
	CollisionIndividual
	CollisionCancel
)

// FileChoice is the per-file decision in individual collision handling.
type FileChoice int

const (
	FileOverwrite FileChoice = iota
	FileSkip
	FileDiff
)

// ConflictChoice is the per-conflict decision during interactive sync
// resolution.
type ConflictChoice int

const (
	ConflictKeepLocal ConflictChoice = iota
	ConflictUseRemote
	ConflictMerge
	ConflictViewDiff
)

// Prompter supplies the human decisions the engines cannot make alone.
// The production implementation renders huh forms; tests use canned
// fakes. Implementations return ErrCancelled when the user aborts and
// ErrNotInteractive when no terminal is attached.
type Prompter interface {
	// SelectComponents presents all names and accepts an arbitrary
	// subset, including none.
	SelectComponents(names []string) ([]string, error)

	// CollisionPolicy asks for the global overwrite policy given the
	// number of colliding files.
	CollisionPolicy(count int) (CollisionChoice, error)

	// FileAction asks what to do with one colliding file.
	FileAction(name string) (FileChoice, error)

	// ConflictAction asks how to resolve one sync conflict.
	ConflictAction(name, localVersion, remoteVersion string) (ConflictChoice, error)
}
