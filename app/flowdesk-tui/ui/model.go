// Package ui is the terminal front end: sign-in and sign-up screens followed
// by the task board for the signed-in user.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/core/usecases/authforms"
	"github.com/jrazmi/flowdesk/core/usecases/taskboard"
	"github.com/jrazmi/flowdesk/infrastructure/supabase"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

type screen int

const (
	screenSignIn screen = iota
	screenSignUp
	screenBoard
)

type mode int

const (
	modeList mode = iota
	modeInput
)

// Draft fields in tab order.
const (
	inputTitle = iota
	inputPriority
	inputDueDate
	inputCount
)

// Config is what the model needs to reach the backends.
type Config struct {
	Log   *logger.Logger
	Auth  authforms.Auth
	Tasks taskboard.Tasks

	// Timeout bounds each backend call. Zero means 15s.
	Timeout time.Duration
}

// Model is the bubbletea model. Backend calls run inside Update, one at a
// time, so the board and the forms are never touched concurrently.
type Model struct {
	base    context.Context
	log     *logger.Logger
	tasks   taskboard.Tasks
	timeout time.Duration

	screen  screen
	signIn  *authforms.SignInForm
	signUp  *authforms.SignUpForm
	focus   int
	session authrepo.Session

	board  *taskboard.Board
	mode   mode
	cursor int
	field  int
}

func New(ctx context.Context, cfg Config) *Model {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Model{
		base:    ctx,
		log:     cfg.Log,
		tasks:   cfg.Tasks,
		timeout: timeout,
		signIn:  authforms.NewSignInForm(cfg.Log, cfg.Auth),
		signUp:  authforms.NewSignUpForm(cfg.Log, cfg.Auth),
	}
}

// Session returns the signed-in session, if any.
func (m *Model) Session() (authrepo.Session, bool) {
	return m.session, m.board != nil
}

// Board returns the task board once signed in.
func (m *Model) Board() *taskboard.Board {
	return m.board
}

// call runs fn with a bounded context carrying the user's access token.
func (m *Model) call(fn func(ctx context.Context)) {
	ctx := m.base
	if m.session.AccessToken != "" {
		ctx = supabase.WithAccessToken(ctx, m.session.AccessToken)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	fn(ctx)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.screen {
	case screenSignIn:
		return m, m.updateSignIn(key)
	case screenSignUp:
		return m, m.updateSignUp(key)
	default:
		if m.mode == modeInput {
			return m, m.updateInput(key)
		}
		return m, m.updateList(key)
	}
}

func (m *Model) updateSignIn(key tea.KeyMsg) tea.Cmd {
	fields := []string{schemas.FieldEmail, schemas.FieldPassword}
	values := m.signIn.Values()
	current := []string{values.Email, values.Password}

	switch key.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyCtrlR:
		m.screen = screenSignUp
		m.focus = 0
		return nil
	case tea.KeyTab, tea.KeyDown, tea.KeyUp, tea.KeyShiftTab:
		m.focus = (m.focus + 1) % len(fields)
		return nil
	case tea.KeyEnter:
		var ok bool
		m.call(func(ctx context.Context) { ok = m.signIn.Submit(ctx) })
		if !ok {
			return nil
		}
		m.session, _ = m.signIn.Session()
		m.board = taskboard.NewBoard(m.log, m.tasks, m.session.User.ID)
		m.screen = screenBoard
		m.call(func(ctx context.Context) { _ = m.board.Refresh(ctx) })
		return nil
	}

	if next, changed := edit(current[m.focus], key); changed {
		m.signIn.Set(fields[m.focus], next)
	}
	return nil
}

func (m *Model) updateSignUp(key tea.KeyMsg) tea.Cmd {
	fields := []string{schemas.FieldEmail, schemas.FieldPassword, schemas.FieldConfirmPassword}
	values := m.signUp.Values()
	current := []string{values.Email, values.Password, values.ConfirmPassword}

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlR:
		m.screen = screenSignIn
		m.focus = 0
		return nil
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(fields)
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(fields) - 1) % len(fields)
		return nil
	case tea.KeyEnter:
		var ok bool
		m.call(func(ctx context.Context) { ok = m.signUp.Submit(ctx) })
		if ok {
			m.focus = 0
		}
		return nil
	}

	if next, changed := edit(current[m.focus], key); changed {
		m.signUp.Set(fields[m.focus], next)
	}
	return nil
}

func (m *Model) updateList(key tea.KeyMsg) tea.Cmd {
	tasks := m.board.Tasks()

	switch key.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "a", "n":
		m.board.CancelEditing()
		m.mode = modeInput
		m.field = inputTitle
	case "e", "enter":
		if len(tasks) > 0 {
			m.board.StartEditing(tasks[m.cursor])
			m.mode = modeInput
			m.field = inputTitle
		}
	case " ", "x":
		if len(tasks) > 0 {
			id := tasks[m.cursor].ID
			m.call(func(ctx context.Context) { _ = m.board.Toggle(ctx, id) })
		}
	case "d":
		if len(tasks) > 0 {
			id := tasks[m.cursor].ID
			m.call(func(ctx context.Context) { _ = m.board.Delete(ctx, id) })
		}
	case "r":
		m.call(func(ctx context.Context) { _ = m.board.Refresh(ctx) })
	}

	m.clampCursor()
	return nil
}

func (m *Model) updateInput(key tea.KeyMsg) tea.Cmd {
	draft := m.board.Draft()

	switch key.Type {
	case tea.KeyEsc:
		m.board.CancelEditing()
		m.mode = modeList
		return nil
	case tea.KeyTab:
		m.field = (m.field + 1) % inputCount
		return nil
	case tea.KeyShiftTab:
		m.field = (m.field + inputCount - 1) % inputCount
		return nil
	case tea.KeyEnter:
		var err error
		m.call(func(ctx context.Context) { err = m.board.Submit(ctx) })
		if err == nil {
			m.mode = modeList
			m.clampCursor()
		}
		return nil
	}

	switch m.field {
	case inputTitle:
		if next, changed := edit(draft.Title, key); changed {
			m.board.SetTitle(next)
		}
	case inputDueDate:
		if next, changed := edit(draft.DueDate, key); changed {
			m.board.SetDueDate(next)
		}
	case inputPriority:
		switch key.Type {
		case tea.KeyRight, tea.KeySpace:
			m.board.SetPriority(cyclePriority(draft.Priority, 1))
		case tea.KeyLeft:
			m.board.SetPriority(cyclePriority(draft.Priority, -1))
		}
	}
	return nil
}

func (m *Model) clampCursor() {
	n := len(m.board.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// edit applies a typing key to s.
func edit(s string, key tea.KeyMsg) (string, bool) {
	switch key.Type {
	case tea.KeyRunes:
		return s + string(key.Runes), true
	case tea.KeySpace:
		return s + " ", true
	case tea.KeyBackspace:
		if s == "" {
			return s, false
		}
		r := []rune(s)
		return string(r[:len(r)-1]), true
	}
	return s, false
}

func cyclePriority(p schemas.Priority, step int) schemas.Priority {
	all := schemas.Priorities
	for i, candidate := range all {
		if candidate == p {
			return all[(i+step+len(all))%len(all)]
		}
	}
	return schemas.PriorityLow
}

func (m *Model) View() string {
	var b strings.Builder
	title := "Flowdesk"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	switch m.screen {
	case screenSignIn:
		m.viewSignIn(&b)
	case screenSignUp:
		m.viewSignUp(&b)
	default:
		m.viewBoard(&b)
	}
	return b.String()
}

func (m *Model) viewSignIn(b *strings.Builder) {
	values := m.signIn.Values()
	errs := m.signIn.Errors()

	if st := m.signIn.Status(); st.Message != "" {
		b.WriteString(st.Message + "\n\n")
	}

	writeField(b, m.focus == 0, "Email", values.Email, errs[schemas.FieldEmail])
	writeField(b, m.focus == 1, "Password", mask(values.Password), errs[schemas.FieldPassword])

	b.WriteString("\ntab: next field  enter: sign in  ctrl+r: create account  esc: quit\n")
}

func (m *Model) viewSignUp(b *strings.Builder) {
	values := m.signUp.Values()
	errs := m.signUp.Errors()

	b.WriteString("Create account\n\n")
	if st := m.signUp.Status(); st.Message != "" {
		b.WriteString(st.Message + "\n\n")
	}

	writeField(b, m.focus == 0, "Email", values.Email, errs[schemas.FieldEmail])
	writeField(b, m.focus == 1, "Password", mask(values.Password), errs[schemas.FieldPassword])
	writeField(b, m.focus == 2, "Confirm password", mask(values.ConfirmPassword), errs[schemas.FieldConfirmPassword])

	b.WriteString("\ntab: next field  enter: sign up  esc: back to sign in\n")
}

func mask(s string) string {
	return strings.Repeat("*", len([]rune(s)))
}

func (m *Model) viewBoard(b *strings.Builder) {
	fmt.Fprintf(b, "Signed in as %s\n\n", m.session.User.Email)

	draft := m.board.Draft()
	errs := m.board.FieldErrors()
	if m.mode == modeInput {
		heading := "New task"
		if task, ok := m.board.Editing(); ok {
			heading = "Editing: " + task.Title
		}
		b.WriteString(heading + "\n")
		writeField(b, m.field == inputTitle, "Title", draft.Title, errs["title"])
		writeField(b, m.field == inputPriority, "Priority", "< "+string(draft.Priority)+" >", errs["priority"])
		writeField(b, m.field == inputDueDate, "Due (YYYY-MM-DD)", draft.DueDate, errs["due_date"])
		b.WriteString("\n")
	}

	if msg := m.board.Message(); msg != "" {
		b.WriteString("! " + msg + "\n\n")
	}

	if empty := m.board.EmptyState(); empty != "" {
		b.WriteString(empty + "\n")
	}
	for i, task := range m.board.Tasks() {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = "> "
		}
		check := "[ ]"
		if task.IsCompleted {
			check = "[x]"
		}
		fmt.Fprintf(b, "%s%s %-40s %-6s %s\n", cursor, check, task.Title, taskboard.PriorityLabel(task), taskboard.DueLabel(task))
	}

	if m.mode == modeInput {
		b.WriteString("\ntab: next field  left/right: priority  enter: save  esc: cancel\n")
		return
	}
	b.WriteString("\na: add  e: edit  space: toggle  d: delete  r: refresh  q: quit\n")
}

func writeField(b *strings.Builder, focused bool, label, value, errMsg string) {
	marker := "  "
	if focused {
		marker = "> "
	}
	fmt.Fprintf(b, "%s%s: %s\n", marker, label, value)
	if errMsg != "" {
		fmt.Fprintf(b, "    %s\n", errMsg)
	}
}
