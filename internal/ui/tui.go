package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
	"github.com/pwalczak/flashdeck/internal/query"
)

const (
	pageMain   = "main"
	pageForm   = "form"
	pageDelete = "delete"
)

// TUI renders the flashcard list and dialogs in the terminal. All state
// decisions live in the Orchestrator; the TUI only draws its state and
// forwards key presses. It implements Notifier by writing toasts to the
// status bar.
type TUI struct {
	app    *tview.Application
	orch   *Orchestrator
	log    *logger.Logger
	pages  *tview.Pages
	table  *tview.Table
	footer *tview.TextView
	status *tview.TextView

	cards      []models.Flashcard
	totalPages int
}

func NewTUI(store *query.Store, pageSize int) *TUI {
	t := &TUI{
		app:        tview.NewApplication(),
		log:        logger.Default().WithPrefix("tui"),
		totalPages: 1,
	}
	t.orch = NewOrchestrator(store, t, pageSize)
	t.setupUI()
	return t
}

// Success implements Notifier. Safe to call from mutation goroutines.
func (t *TUI) Success(msg string) {
	t.app.QueueUpdateDraw(func() {
		t.status.SetText("[green]" + msg + "[white]")
	})
}

// Error implements Notifier.
func (t *TUI) Error(msg string) {
	t.app.QueueUpdateDraw(func() {
		t.status.SetText("[red]" + msg + "[white]")
	})
}

func (t *TUI) setupUI() {
	t.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.table.SetBorder(true).
		SetTitle(" Flashcards ").
		SetTitleAlign(tview.AlignCenter)

	t.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	t.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.table, 0, 1, true).
		AddItem(t.footer, 1, 0, false).
		AddItem(t.status, 1, 0, false)

	t.pages = tview.NewPages().AddPage(pageMain, layout, true, true)

	t.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			t.app.Stop()
			return nil
		case 'n':
			t.orch.OpenCreate()
			t.showForm("New Flashcard", "", "")
			return nil
		case 'e':
			if card, ok := t.selectedCard(); ok {
				t.orch.OpenEdit(card)
				t.showForm("Edit Flashcard", card.Front, card.Back)
			}
			return nil
		case 'd':
			if card, ok := t.selectedCard(); ok {
				t.orch.OpenDelete(card)
				t.showDeleteConfirm(card)
			}
			return nil
		case 'r':
			t.refresh()
			return nil
		case '[':
			t.gotoPage(t.orch.Page() - 1)
			return nil
		case ']':
			t.gotoPage(t.orch.Page() + 1)
			return nil
		}
		return event
	})
}

func (t *TUI) selectedCard() (models.Flashcard, bool) {
	row, _ := t.table.GetSelection()
	idx := row - 1 // row 0 is the header
	if idx < 0 || idx >= len(t.cards) {
		return models.Flashcard{}, false
	}
	return t.cards[idx], true
}

func (t *TUI) gotoPage(n int) {
	if n < 1 || n > t.totalPages {
		return
	}
	t.orch.SetPage(n)
	t.refresh()
}

func (t *TUI) showForm(title, front, back string) {
	form := tview.NewForm()
	form.AddTextArea("Front", front, 60, 4, 0, nil)
	form.AddTextArea("Back", back, 60, 4, 0, nil)
	form.AddButton("Save", func() {
		frontText := form.GetFormItemByLabel("Front").(*tview.TextArea).GetText()
		backText := form.GetFormItemByLabel("Back").(*tview.TextArea).GetText()
		t.submitForm(frontText, backText)
	})
	form.AddButton("Cancel", func() {
		t.orch.CloseForm()
		t.pages.RemovePage(pageForm)
	})
	form.SetBorder(true).SetTitle(" " + title + " ").SetTitleAlign(tview.AlignCenter)

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			t.orch.CloseForm()
			t.pages.RemovePage(pageForm)
			return nil
		}
		return event
	})

	centered := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 15, 0, true).
			AddItem(nil, 0, 1, false), 70, 0, true).
		AddItem(nil, 0, 1, false)

	t.pages.AddPage(pageForm, centered, true, true)
	t.app.SetFocus(form)
}

func (t *TUI) submitForm(front, back string) {
	m := t.orch.SubmitForm(context.Background(), front, back)
	if m == nil {
		return
	}
	go func() {
		_ = m.Wait(context.Background())
		t.app.QueueUpdateDraw(func() {
			// The dialog stays open on failure so the input survives for retry.
			if t.orch.Form().Mode == FormClosed {
				t.pages.RemovePage(pageForm)
			}
		})
		if m.Status() == query.MutationSuccess {
			t.refresh()
		}
	}()
}

func (t *TUI) showDeleteConfirm(card models.Flashcard) {
	front := card.Front
	if len(front) > 40 {
		front = front[:40] + "…"
	}
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete flashcard %q?", front)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel != "Delete" {
				t.orch.CloseDelete()
				t.pages.RemovePage(pageDelete)
				return
			}
			t.confirmDelete()
		})

	t.pages.AddPage(pageDelete, modal, true, true)
	t.app.SetFocus(modal)
}

func (t *TUI) confirmDelete() {
	m := t.orch.ConfirmDelete(context.Background())
	if m == nil {
		return
	}
	go func() {
		_ = m.Wait(context.Background())
		t.app.QueueUpdateDraw(func() {
			if !t.orch.Delete().Open {
				t.pages.RemovePage(pageDelete)
			}
		})
		if m.Status() == query.MutationSuccess {
			t.refresh()
		}
	}()
}

// refresh loads the current page off the event loop and redraws.
func (t *TUI) refresh() {
	go func() {
		list, err := t.orch.Load(context.Background())
		t.app.QueueUpdateDraw(func() {
			if err != nil {
				t.status.SetText("[red]Failed to load flashcards[white]")
				return
			}
			t.render(list)
		})
	}()
}

func (t *TUI) render(list *models.FlashcardList) {
	t.cards = list.Data
	t.totalPages = list.Pagination.TotalPages

	t.table.Clear()
	headers := []string{"Front", "Back", "Origin", "Updated"}
	for col, h := range headers {
		t.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).
			SetSelectable(false).
			SetExpansion(1))
	}
	for i, card := range list.Data {
		t.table.SetCell(i+1, 0, tview.NewTableCell(truncate(card.Front, 48)).SetExpansion(2))
		t.table.SetCell(i+1, 1, tview.NewTableCell(truncate(card.Back, 48)).SetExpansion(2))
		t.table.SetCell(i+1, 2, tview.NewTableCell(card.Origin))
		t.table.SetCell(i+1, 3, tview.NewTableCell(card.UpdatedAt.Format("2006-01-02 15:04")))
	}
	if len(list.Data) > 0 && t.table.GetRowCount() > 1 {
		row, _ := t.table.GetSelection()
		if row < 1 || row > len(list.Data) {
			t.table.Select(1, 0)
		}
	}

	t.footer.SetText(fmt.Sprintf(
		"Page %d/%d (%d cards)  [yellow]n[white] new  [yellow]e[white] edit  [yellow]d[white] delete  [yellow][ ][white] page  [yellow]r[white] reload  [yellow]q[white] quit",
		list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Run starts the terminal application and blocks until it exits.
func (t *TUI) Run() error {
	t.refresh()
	return t.app.SetRoot(t.pages, true).EnableMouse(true).Run()
}
