package ui

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"userdash/internal/auth"
	"userdash/internal/config"
	"userdash/internal/domain"
	"userdash/internal/eventbus"
	"userdash/internal/profile"
	"userdash/internal/query"
	"userdash/internal/search"
	"userdash/internal/ui/input"
	inputtypes "userdash/internal/ui/input/types"
	"userdash/internal/ui/logic"
	"userdash/internal/ui/views"
	"userdash/internal/users"
	"userdash/internal/validation"
)

// Screen is the page the dashboard is showing
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenUsers
	ScreenProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenUsers:
		return "users"
	case ScreenProfile:
		return "profile"
	default:
		return "unknown"
	}
}

const statusTimeout = 3 * time.Second

// Deps are the services the dashboard drives
type Deps struct {
	Config        *config.Config
	ConfigService config.ConfigService // optional; theme changes are not persisted without it
	Bus           eventbus.EventBus    // optional
	Store         query.Store
	Search        *search.Synchronizer
	Loader        *users.Loader
	Auth          *auth.Service
	Profile       *profile.Service
	Logger        *zap.Logger
}

// Model represents the UI state
type Model struct {
	deps   Deps
	ctx    context.Context
	logger *zap.Logger

	screen   Screen
	width    int
	height   int
	theme    domain.ThemeMode
	renderer *views.Renderer
	spinner  spinner.Model

	inputHandler *input.Handler
	nav          *logic.Navigator
	showHelp     bool
	helpScroll   int

	statusMessage string
	statusIsError bool
	statusSeq     int

	login   *loginForm
	profile *profileForm

	inPagerMode bool // tracks if we're currently in pager mode
	helpOps     *HelpOps
	program     *tea.Program
}

// NewModel creates the dashboard. Fetches run with ctx.
func NewModel(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := domain.ThemeLight
	if deps.Config != nil {
		theme = deps.Config.ThemeMode()
	}

	m := &Model{
		deps:         deps,
		ctx:          ctx,
		logger:       logger,
		screen:       ScreenLogin,
		theme:        theme,
		renderer:     views.NewRenderer(theme),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		inputHandler: input.New(),
		nav:          logic.NewNavigator(),
		login:        newLoginForm(),
	}
	if deps.Auth.IsAuthenticated() {
		m.screen = ScreenUsers
	}
	m.inputHandler.SetText(deps.Search.Input())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Screen returns the page being shown
func (m *Model) Screen() Screen {
	return m.screen
}

// Theme returns the active colour scheme
func (m *Model) Theme() domain.ThemeMode {
	return m.theme
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	if m.screen == ScreenUsers {
		return m.enterUsers()
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.nav.SetViewportHeight(views.TableRows(msg.Height))
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		// Ticks stop while the pager owns the terminal and restart on resume
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.handleNonKeyboardMsg(msg)
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	switch m.screen {
	case ScreenLogin:
		return m.renderer.RenderForm(m.login.viewState(m.width, m.height, m.spinner.View()))
	case ScreenProfile:
		return m.renderer.RenderForm(m.profile.viewState(m.width, m.height, m.spinner.View()))
	default:
		return m.renderer.Render(m.viewState())
	}
}

func (m *Model) viewState() views.ViewState {
	snap := m.deps.Loader.Snapshot()
	key, begun := m.deps.Loader.Current()
	if !begun {
		key = m.deps.Store.Current().Key()
	}

	var load views.LoadState
	switch snap.Status {
	case users.StatusSucceeded:
		load = views.LoadReady
	case users.StatusFailed:
		load = views.LoadFailed
	default:
		load = views.LoadLoading
		if len(snap.Result.Users) > 0 {
			load = views.LoadRefreshing
		}
	}

	email := ""
	if session, err := m.deps.Auth.Session(); err == nil {
		email = session.Email
	}

	m.nav.SetTotal(len(snap.Result.Users))
	rowStart, rowEnd := m.nav.Window()

	mode := m.inputHandler.CurrentMode()
	return views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Email:         email,
		SearchBox:     m.inputHandler.TextInput().View(),
		SearchFocused: mode == inputtypes.ModeSearch,
		SearchPending: m.deps.Search.Pending(),
		Search:        key.Search,
		Users:         snap.Result.Users,
		SelectedIndex: m.nav.GetSelectedIndex(),
		RowStart:      rowStart,
		RowEnd:        rowEnd,
		Load:          load,
		Spinner:       m.spinner.View(),
		Page:          key.Page,
		TotalPages:    m.pageCount(key),
		PageSize:      key.PageSize,
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		ShowDetails:   mode == inputtypes.ModeDetails,
		ConfirmLogout: mode == inputtypes.ModeLogoutConfirm,
		ShowHelp:      m.showHelp,
		HelpScroll:    m.helpScroll,
	}
}

// CurrentIndex implements inputtypes.Context
func (m *Model) CurrentIndex() int {
	return m.nav.GetSelectedIndex()
}

// TotalItems implements inputtypes.Context
func (m *Model) TotalItems() int {
	return len(m.deps.Loader.Snapshot().Result.Users)
}

// SearchText implements inputtypes.Context
func (m *Model) SearchText() string {
	if s := m.deps.Search.Input(); s != "" {
		return s
	}
	return m.deps.Store.Current().Search
}

// HasError implements inputtypes.Context
func (m *Model) HasError() bool {
	return m.deps.Loader.Snapshot().Status == users.StatusFailed
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenProfile:
		return m.handleProfileKey(msg)
	}

	if !m.deps.Auth.IsAuthenticated() {
		m.logger.Info("session expired, returning to sign-in")
		return m.toLogin()
	}

	if m.showHelp {
		switch msg.String() {
		case "ctrl+c":
			return tea.Quit
		case "up", "k":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		case "down", "j":
			m.helpScroll++
		default:
			m.showHelp = false
			m.helpScroll = 0
		}
		return nil
	}

	actions, cmd := m.inputHandler.HandleKey(msg, m)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}

	// The query state may have replaced the search term (history, clearing)
	m.inputHandler.SetText(m.deps.Search.Input())

	return tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.logger.Debug("processAction", zap.String("action", action.Type()))
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.nav.SetTotal(m.TotalItems())
		m.nav.Move(a.Direction)

	case inputtypes.PageAction:
		return m.changePage(a.Delta)

	case inputtypes.PageSizeAction:
		return m.changePageSize(a.Delta)

	case inputtypes.HistoryAction:
		moved := false
		if a.Forward {
			moved = m.deps.Store.Forward()
		} else {
			moved = m.deps.Store.Back()
		}
		if moved {
			return m.syncQuery()
		}

	case inputtypes.UpdateTextAction:
		// The debounced search reaches the store later and comes back as a QueryChangedEvent
		m.deps.Search.SetInput(a.Text)

	case inputtypes.SubmitTextAction:
		m.deps.Search.SetInput(a.Text)
		m.deps.Search.Commit()
		return m.syncQuery()

	case inputtypes.CancelTextAction:
		// Leaving the box keeps what was typed; the debounce still applies it

	case inputtypes.ClearSearchAction:
		m.deps.Search.SetInput("")
		m.deps.Search.Commit()
		return m.syncQuery()

	case inputtypes.RetryAction:
		return m.fetch(m.deps.Store.Current().Key())

	case inputtypes.ToggleThemeAction:
		return m.toggleTheme()

	case inputtypes.OpenProfileAction:
		return m.openProfile()

	case inputtypes.LogoutAction:
		return m.logout()

	case inputtypes.ToggleHelpAction:
		if m.program != nil {
			return m.fetchHelpPager(m.renderer.RenderHelp())
		}
		m.showHelp = !m.showHelp
		m.helpScroll = 0

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// syncQuery starts a fetch when the query state names a different key than
// the one being shown. Calling it again for the same key does nothing.
func (m *Model) syncQuery() tea.Cmd {
	key := m.deps.Store.Current().Key()
	if cur, begun := m.deps.Loader.Current(); begun && cur == key {
		return nil
	}
	return m.fetch(key)
}

func (m *Model) fetch(key domain.QueryKey) tea.Cmd {
	m.logger.Debug("fetching users", zap.Stringer("key", key))
	run := m.deps.Loader.Begin(key)
	m.nav.Reset()
	ctx := m.ctx
	return func() tea.Msg {
		return usersLoadedMsg{outcome: run(ctx)}
	}
}

func (m *Model) changePage(delta int) tea.Cmd {
	cur := m.deps.Store.Current()
	next := cur.Page + delta
	if next < 1 {
		return nil
	}
	if delta > 0 && next > m.pageCount(cur.Key()) && !m.fullBatchAt(cur.Key()) {
		return nil
	}
	m.deps.Search.ChangePage(next, cur.PageSize)
	return m.syncQuery()
}

// pageCount is the estimated page total, stretched to cover a page reached
// by paging past the estimate
func (m *Model) pageCount(key domain.QueryKey) int {
	total := users.PageCount(key.PageSize)
	if key.Page > total {
		total = key.Page
	}
	return total
}

// fullBatchAt reports whether the unsearched page at key loaded a full batch,
// in which case the source may still have rows past the estimate
func (m *Model) fullBatchAt(key domain.QueryKey) bool {
	if key.Search != "" {
		return false
	}
	snap := m.deps.Loader.Snapshot()
	return snap.Status == users.StatusSucceeded && snap.Key == key &&
		len(snap.Result.Users) >= key.PageSize
}

func (m *Model) changePageSize(delta int) tea.Cmd {
	cur := m.deps.Store.Current()
	options := []int{query.DefaultPageSize}
	if m.deps.Config != nil && len(m.deps.Config.UI.PageSizeOptions) > 0 {
		options = m.deps.Config.UI.PageSizeOptions
	}

	i := sort.SearchInts(options, cur.PageSize)
	switch {
	case i < len(options) && options[i] == cur.PageSize:
		i += delta
	case delta < 0:
		i--
	}
	if i < 0 {
		i = 0
	}
	if i >= len(options) {
		i = len(options) - 1
	}

	size := options[i]
	if size == cur.PageSize {
		return nil
	}
	page := cur.Page
	if total := users.PageCount(size); page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	m.deps.Search.ChangePage(page, size)
	return m.syncQuery()
}

func (m *Model) toggleTheme() tea.Cmd {
	m.theme = m.theme.Toggle()
	m.renderer = views.NewRenderer(m.theme)
	m.logger.Info("theme changed", zap.String("theme", string(m.theme)))

	var cmd tea.Cmd
	if m.deps.Config != nil {
		m.deps.Config.UI.Theme = string(m.theme)
		if m.deps.ConfigService != nil {
			if err := m.deps.ConfigService.Save(m.deps.Config); err != nil {
				m.logger.Error("failed to save theme", zap.Error(err))
				cmd = m.setStatus("could not save theme: "+err.Error(), true)
			}
		}
	}
	if m.deps.Bus != nil {
		m.deps.Bus.Publish(domain.ThemeChangedEvent{Mode: m.theme})
	}
	return cmd
}

func (m *Model) openProfile() tea.Cmd {
	p, err := m.deps.Profile.Load()
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return m.toLogin()
	}
	if err != nil {
		m.logger.Error("failed to load profile", zap.Error(err))
		return m.setStatus("could not load profile: "+err.Error(), true)
	}
	m.profile = newProfileForm(p)
	m.screen = ScreenProfile
	m.showHelp = false
	return textinput.Blink
}

func (m *Model) logout() tea.Cmd {
	if err := m.deps.Auth.Logout(); err != nil {
		m.logger.Error("failed to sign out", zap.Error(err))
		return m.setStatus("could not sign out: "+err.Error(), true)
	}
	return m.toLogin()
}

func (m *Model) toLogin() tea.Cmd {
	m.screen = ScreenLogin
	m.profile = nil
	m.showHelp = false
	m.inputHandler.Reset(m)
	m.login.Reset()
	return textinput.Blink
}

func (m *Model) enterUsers() tea.Cmd {
	m.screen = ScreenUsers
	m.inputHandler.Reset(m)
	m.inputHandler.SetText(m.deps.Search.Input())
	return tea.Batch(m.spinner.Tick, m.syncQuery())
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	submit, cmd := m.login.Update(msg)
	if !submit {
		return cmd
	}

	creds := m.login.credentials()
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validation.Check(creds); err != nil {
		m.login.Result(err)
		return nil
	}
	m.login.submitting = true
	m.login.failure = ""
	m.login.errs = nil

	svc, ctx := m.deps.Auth, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		_, err := svc.Login(ctx, creds)
		return loginResultMsg{err: err}
	})
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	action, cmd := m.profile.Update(msg)
	switch action {
	case profileKeyBack:
		m.profile = nil
		return m.enterUsers()
	case profileKeySubmit:
		return m.saveProfile()
	}
	return cmd
}

func (m *Model) saveProfile() tea.Cmd {
	p, errs := m.profile.Profile()
	if errs != nil {
		m.profile.Invalid(errs)
		return nil
	}
	if err := profile.Validate(p); err != nil {
		m.profile.Invalid(validation.Fields(err))
		return nil
	}

	m.profile.saving = true
	m.profile.status = ""
	m.profile.errs = nil

	svc, ctx := m.deps.Profile, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return profileSavedMsg{profile: p, err: svc.Save(ctx, p)}
	})
}

func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) clampSelection() {
	m.nav.SetTotal(m.TotalItems())
}

// handleNonKeyboardMsg processes results of commands and forwarded domain events
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case usersLoadedMsg:
		o := msg.outcome
		if !m.deps.Loader.Resolve(o) {
			m.logger.Debug("discarded stale users result", zap.Stringer("key", o.Key))
			return m, nil
		}
		if o.Err != nil {
			m.logger.Warn("users fetch failed", zap.Stringer("key", o.Key), zap.Error(o.Err))
		}
		m.clampSelection()
		return m, nil

	case loginResultMsg:
		m.login.Result(msg.err)
		if msg.err != nil {
			return m, nil
		}
		return m, m.enterUsers()

	case profileSavedMsg:
		if m.profile == nil {
			return m, nil
		}
		m.profile.Result(msg.err)
		if msg.err != nil {
			return m, nil
		}
		return m, m.setStatus("Profile updated successfully", false)

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, log and fall back to the popup
			m.logger.Warn("help pager failed, falling back to popup", zap.Error(msg.err))
			m.showHelp = true
			m.helpScroll = 0
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}

	// Cursor blink and other text input messages
	switch m.screen {
	case ScreenLogin:
		return m, m.login.Blink(msg)
	case ScreenProfile:
		return m, m.profile.Blink(msg)
	default:
		return m, m.inputHandler.Update(msg)
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.QueryChangedEvent:
		m.inputHandler.SetText(m.deps.Search.Input())
		if m.screen == ScreenLogin {
			return nil
		}
		return m.syncQuery()

	case domain.ThemeChangedEvent:
		if e.Mode != m.theme {
			m.theme = e.Mode
			m.renderer = views.NewRenderer(m.theme)
		}

	case domain.LoggedOutEvent:
		if m.screen != ScreenLogin {
			return m.toLogin()
		}

	case domain.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}
