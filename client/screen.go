package client

import (
	"context"
	"errors"
)

// ListState is the cache state of a screen's record list.
type ListState int

const (
	StateIdle ListState = iota
	StateLoading
)

// FormMode distinguishes a pending create from a pending edit.
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

var (
	ErrFormOpen           = errors.New("form is already open")
	ErrFormClosed         = errors.New("form is not open")
	ErrRequestInFlight    = errors.New("another request is in flight")
	ErrDeleteNotConfirmed = errors.New("delete has not been confirmed")
)

// Screen models one resource screen of the mobile app: a cached list of T
// plus a modal form holding a draft of D (the write payload). After any
// successful mutation the list is discarded and re-fetched in full, so the
// displayed list always reflects the last server response.
//
// The model is single-threaded and cooperative: one outstanding request at a
// time, enforced by an in-flight flag. Screen is not safe for concurrent use.
type Screen[T, D any] struct {
	resource *Resource[T]

	state ListState
	items []T

	formOpen bool
	mode     FormMode
	editID   int64
	draft    D

	confirmDeleteID int64
	inFlight        bool
}

// NewScreen creates a screen over one resource binding. The list starts empty
// and Idle; call Reload for the initial fetch.
func NewScreen[T, D any](resource *Resource[T]) *Screen[T, D] {
	return &Screen[T, D]{resource: resource, items: []T{}}
}

// State returns the cache state.
func (s *Screen[T, D]) State() ListState {
	return s.state
}

// Items returns the currently displayed list.
func (s *Screen[T, D]) Items() []T {
	return s.items
}

// Reload discards nothing until the fetch succeeds: on failure the previously
// displayed list stays untouched.
func (s *Screen[T, D]) Reload(ctx context.Context) error {
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	return s.reload(ctx)
}

func (s *Screen[T, D]) reload(ctx context.Context) error {
	s.state = StateLoading
	items, err := s.resource.List(ctx)
	s.state = StateIdle
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// OpenCreate opens the modal form in create mode with a zero draft.
func (s *Screen[T, D]) OpenCreate() error {
	if s.formOpen {
		return ErrFormOpen
	}
	var zero D
	s.formOpen = true
	s.mode = ModeCreate
	s.editID = 0
	s.draft = zero
	return nil
}

// OpenEdit opens the modal form in edit mode, pre-filled with draft.
func (s *Screen[T, D]) OpenEdit(id int64, draft D) error {
	if s.formOpen {
		return ErrFormOpen
	}
	s.formOpen = true
	s.mode = ModeEdit
	s.editID = id
	s.draft = draft
	return nil
}

// SetDraft replaces the pending form draft.
func (s *Screen[T, D]) SetDraft(draft D) error {
	if !s.formOpen {
		return ErrFormClosed
	}
	s.draft = draft
	return nil
}

// Draft returns the pending draft and whether the form is open.
func (s *Screen[T, D]) Draft() (D, bool) {
	return s.draft, s.formOpen
}

// FormMode returns the current form mode; meaningful only while open.
func (s *Screen[T, D]) FormMode() FormMode {
	return s.mode
}

// CloseForm abandons the draft without submitting.
func (s *Screen[T, D]) CloseForm() {
	var zero D
	s.formOpen = false
	s.draft = zero
	s.editID = 0
}

// Submit sends the draft as a create or update. On success the form closes
// and the full list is re-fetched; on failure the form stays open with the
// draft intact and the displayed list is untouched.
func (s *Screen[T, D]) Submit(ctx context.Context) error {
	if !s.formOpen {
		return ErrFormClosed
	}
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.inFlight = true
	defer func() { s.inFlight = false }()

	var err error
	switch s.mode {
	case ModeEdit:
		err = s.resource.Update(ctx, s.editID, s.draft)
	default:
		_, err = s.resource.Create(ctx, s.draft)
	}
	if err != nil {
		return err
	}

	s.CloseForm()
	return s.reload(ctx)
}

// ConfirmDelete records the user's "are you sure" acknowledgement for id.
func (s *Screen[T, D]) ConfirmDelete(id int64) {
	s.confirmDeleteID = id
}

// Delete issues the delete for id, which must have been confirmed first. The
// confirmation is consumed whether or not the request succeeds. On success
// the full list is re-fetched.
func (s *Screen[T, D]) Delete(ctx context.Context, id int64) error {
	if s.confirmDeleteID != id || id == 0 {
		return ErrDeleteNotConfirmed
	}
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.confirmDeleteID = 0
	s.inFlight = true
	defer func() { s.inFlight = false }()

	if err := s.resource.Delete(ctx, id); err != nil {
		return err
	}

	return s.reload(ctx)
}
