package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/siliconyouth/revolutionary-ui/internal/syncer"
)

// FormPrompter implements syncer.Prompter with huh forms on the
// controlling terminal. Constructing one does not touch the terminal;
// every prompt checks interactivity first and returns
// syncer.ErrNotInteractive when stdin is not a TTY.
type FormPrompter struct{}

var _ syncer.Prompter = FormPrompter{}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// translate maps huh's abort error onto the engine's cancel sentinel.
func translate(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return syncer.ErrCancelled
	}
	return err
}

// SelectComponents shows a multi-select over all remote component
// names. Returning an empty selection is valid.
func (FormPrompter) SelectComponents(names []string) ([]string, error) {
	if !interactive() {
		return nil, syncer.ErrNotInteractive
	}

	opts := make([]huh.Option[string], len(names))
	for i, name := range names {
		opts[i] = huh.NewOption(name, name)
	}

	var selected []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Select components to pull").
			Options(opts...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, translate(err)
	}
	return selected, nil
}

// CollisionPolicy asks for the global policy when pulled files already
// exist locally.
func (FormPrompter) CollisionPolicy(count int) (syncer.CollisionChoice, error) {
	if !interactive() {
		return 0, syncer.ErrNotInteractive
	}

	var choice syncer.CollisionChoice
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[syncer.CollisionChoice]().
			Title(fmt.Sprintf("%d local files already exist", count)).
			Options(
				huh.NewOption("Skip existing files", syncer.CollisionSkipAll),
				huh.NewOption("Overwrite all", syncer.CollisionOverwriteAll),
				huh.NewOption("Decide per file", syncer.CollisionIndividual),
				huh.NewOption("Cancel", syncer.CollisionCancel),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, translate(err)
	}
	return choice, nil
}

// FileAction asks what to do with one colliding file.
func (FormPrompter) FileAction(name string) (syncer.FileChoice, error) {
	if !interactive() {
		return 0, syncer.ErrNotInteractive
	}

	var choice syncer.FileChoice
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[syncer.FileChoice]().
			Title(fmt.Sprintf("%s already exists", name)).
			Options(
				huh.NewOption("Overwrite", syncer.FileOverwrite),
				huh.NewOption("Skip", syncer.FileSkip),
				huh.NewOption("Show diff", syncer.FileDiff),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, translate(err)
	}
	return choice, nil
}

// ConflictAction asks how to resolve one sync conflict.
func (FormPrompter) ConflictAction(name, localVersion, remoteVersion string) (syncer.ConflictChoice, error) {
	if !interactive() {
		return 0, syncer.ErrNotInteractive
	}

	var choice syncer.ConflictChoice
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[syncer.ConflictChoice]().
			Title(fmt.Sprintf("%s conflicts (local %s, remote %s)", name, localVersion, remoteVersion)).
			Options(
				huh.NewOption("Keep local version", syncer.ConflictKeepLocal),
				huh.NewOption("Use remote version", syncer.ConflictUseRemote),
				huh.NewOption("Merge", syncer.ConflictMerge),
				huh.NewOption("View diff", syncer.ConflictViewDiff),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, translate(err)
	}
	return choice, nil
}
