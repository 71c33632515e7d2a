package ui

import (
	"context"
	"sync"

	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/query"
)

// Notifier surfaces transient success/failure messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// FormMode tags the form dialog state. A target flashcard exists only in
// FormEdit, so "open with no mode" is unrepresentable.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

// FormDialog is the form dialog's tagged state. Target is non-nil exactly
// when Mode is FormEdit.
type FormDialog struct {
	Mode   FormMode
	Target *models.Flashcard
}

// DeleteDialog is the delete confirmation state. Target is non-nil exactly
// when Open is true.
type DeleteDialog struct {
	Open   bool
	Target *models.Flashcard
}

// Orchestrator owns the transient UI state: the current page, which dialog
// is open and which record it targets. It wires user intent to the query
// store and relies on its invalidation for list refreshes; it never
// retries a failed call and never updates optimistically.
type Orchestrator struct {
	mu       sync.Mutex
	store    *query.Store
	notifier Notifier
	log      *logger.Logger

	page     int
	pageSize int
	form     FormDialog
	del      DeleteDialog

	// onChange fires after every state transition so a rendering layer
	// can redraw. May be nil.
	onChange func()
}

func NewOrchestrator(store *query.Store, notifier Notifier, pageSize int) *Orchestrator {
	if pageSize < 1 {
		pageSize = 20
	}
	return &Orchestrator{
		store:    store,
		notifier: notifier,
		log:      logger.Default().WithPrefix("ui"),
		page:     1,
		pageSize: pageSize,
	}
}

// SetOnChange registers a redraw hook. It may be called from mutation
// goroutines.
func (o *Orchestrator) SetOnChange(fn func()) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

func (o *Orchestrator) fireChange() {
	o.mu.Lock()
	fn := o.onChange
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Key returns the query key for the current page.
func (o *Orchestrator) Key() query.Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return query.Key{Page: o.page, PageSize: o.pageSize}
}

// Page returns the current page number.
func (o *Orchestrator) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// SetPage changes the current page. The query store picks up the new key
// on the next load.
func (o *Orchestrator) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	o.mu.Lock()
	o.page = n
	o.mu.Unlock()
	o.fireChange()
}

// Load fetches the current page through the query store.
func (o *Orchestrator) Load(ctx context.Context) (*models.FlashcardList, error) {
	return o.store.Get(ctx, o.Key())
}

// Form returns the form dialog state.
func (o *Orchestrator) Form() FormDialog {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// Delete returns the delete dialog state.
func (o *Orchestrator) Delete() DeleteDialog {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.del
}

// OpenCreate opens the form dialog in create mode.
func (o *Orchestrator) OpenCreate() {
	o.mu.Lock()
	o.form = FormDialog{Mode: FormCreate}
	o.mu.Unlock()
	o.fireChange()
}

// OpenEdit opens the form dialog in edit mode targeting card.
func (o *Orchestrator) OpenEdit(card models.Flashcard) {
	o.mu.Lock()
	o.form = FormDialog{Mode: FormEdit, Target: &card}
	o.mu.Unlock()
	o.fireChange()
}

// CloseForm closes the form dialog.
func (o *Orchestrator) CloseForm() {
	o.mu.Lock()
	o.form = FormDialog{}
	o.mu.Unlock()
	o.fireChange()
}

// OpenDelete opens the delete confirmation targeting card.
func (o *Orchestrator) OpenDelete(card models.Flashcard) {
	o.mu.Lock()
	o.del = DeleteDialog{Open: true, Target: &card}
	o.mu.Unlock()
	o.fireChange()
}

// CloseDelete closes the delete confirmation.
func (o *Orchestrator) CloseDelete() {
	o.mu.Lock()
	o.del = DeleteDialog{}
	o.mu.Unlock()
	o.fireChange()
}

// SubmitForm submits the form dialog's contents. In create mode it starts
// a create mutation, in edit mode an update for the target. On success the
// dialog closes and a success toast shows; on failure the dialog stays
// open with its input preserved and a failure toast shows. Returns nil if
// no form is open.
func (o *Orchestrator) SubmitForm(ctx context.Context, front, back string) *query.Mutation {
	form := o.Form()

	switch form.Mode {
	case FormCreate:
		o.log.Debug("submitting create")
		return o.store.CreateFlashcard(ctx, models.CreateFlashcardCommand{Front: front, Back: back}, query.CardCallbacks{
			OnSuccess: func(card *models.Flashcard) {
				o.CloseForm()
				o.notifier.Success("Flashcard created")
			},
			OnError: func(err error) {
				o.log.Warn("create failed: %v", err)
				o.notifier.Error("Failed to create flashcard")
				o.fireChange()
			},
		})
	case FormEdit:
		o.log.Debug("submitting edit: id=%s", form.Target.ID)
		cmd := models.UpdateFlashcardCommand{Front: &front, Back: &back}
		return o.store.UpdateFlashcard(ctx, form.Target.ID, cmd, query.CardCallbacks{
			OnSuccess: func(card *models.Flashcard) {
				o.CloseForm()
				o.notifier.Success("Flashcard updated")
			},
			OnError: func(err error) {
				o.log.Warn("update failed: %v", err)
				o.notifier.Error("Failed to update flashcard")
				o.fireChange()
			},
		})
	default:
		return nil
	}
}

// ConfirmDelete starts a delete mutation for the delete dialog's target.
// Returns nil if no delete dialog is open.
func (o *Orchestrator) ConfirmDelete(ctx context.Context) *query.Mutation {
	del := o.Delete()
	if !del.Open {
		return nil
	}

	o.log.Debug("confirming delete: id=%s", del.Target.ID)
	return o.store.DeleteFlashcard(ctx, del.Target.ID, query.DeleteCallbacks{
		OnSuccess: func() {
			o.CloseDelete()
			o.notifier.Success("Flashcard deleted")
		},
		OnError: func(err error) {
			o.log.Warn("delete failed: %v", err)
			o.notifier.Error("Failed to delete flashcard")
			o.fireChange()
		},
	})
}
