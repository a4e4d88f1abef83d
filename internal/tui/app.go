// Package tui provides the interactive Bubble Tea dashboard for finsight.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/finsight/internal/config"
	"github.com/theirongolddev/finsight/internal/insights"
	"github.com/theirongolddev/finsight/internal/pipeline"
	"github.com/theirongolddev/finsight/internal/tui/components"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// Phase is where the current load pass stands.
type Phase int

const (
	PhaseResolvingUser Phase = iota
	PhaseLoadingInsights
	PhaseReady
	PhaseFailed
)

// UserResolvedMsg is sent when stage one produces a user id.
type UserResolvedMsg struct {
	Pass int
	User pipeline.UserID
}

// InsightsLoadedMsg is sent when stage two returns a payload.
type InsightsLoadedMsg struct {
	Pass    int
	Payload *insights.Payload
}

// LoadFailedMsg is sent when either stage fails. It ends the pass.
type LoadFailedMsg struct {
	Pass int
	Kind pipeline.FailureKind
	Err  error
}

// Options configures a new App.
type Options struct {
	// FirstRun shows the setup form before the first load.
	FirstRun bool
	// Now is the clock used for trend labels. Defaults to time.Now.
	Now func() time.Time
	// Reconfigure rebuilds the fetcher after the setup form saves new settings.
	Reconfigure func(config.Config) pipeline.Fetcher
}

// App is the root Bubble Tea model.
type App struct {
	fetcher     pipeline.Fetcher
	now         func() time.Time
	reconfigure func(config.Config) pipeline.Fetcher

	// Load state
	phase    Phase
	pass     int // bumped on every manual reload; stale messages are dropped
	user     pipeline.UserID
	view     insights.View
	failure  pipeline.FailureKind
	failErr  error
	started  time.Time
	loadTime time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	scroll    int
	showHelp  bool
	spinner   spinner.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	setupErr  error
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
)

// NewApp creates the dashboard model. Nothing is fetched until Init.
func NewApp(f pipeline.Fetcher, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := App{
		fetcher:     f,
		now:         now,
		reconfigure: opts.Reconfigure,
		started:     time.Now(),
		spinner:     sp,
	}
	if opts.FirstRun {
		cfg, _ := config.LoadFile()
		vals := SetupValuesFrom(cfg)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.setupForm != nil {
		return a.setupForm.Init()
	}
	return tea.Batch(a.spinner.Tick, resolveUserCmd(a.fetcher, a.pass))
}

// Phase reports the current load phase.
func (a App) Phase() Phase { return a.phase }

// Failure reports why the last pass failed.
func (a App) Failure() pipeline.FailureKind { return a.failure }

// startPass begins a fresh load from stage one.
func (a App) startPass() (App, tea.Cmd) {
	a.pass++
	a.phase = PhaseResolvingUser
	a.failure = pipeline.FailureNone
	a.failErr = nil
	a.started = time.Now()
	return a, tea.Batch(a.spinner.Tick, resolveUserCmd(a.fetcher, a.pass))
}

func (a App) loading() bool {
	return a.phase == PhaseResolvingUser || a.phase == PhaseLoadingInsights
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)

	case UserResolvedMsg:
		if msg.Pass != a.pass || a.phase != PhaseResolvingUser {
			return a, nil
		}
		a.user = msg.User
		a.phase = PhaseLoadingInsights
		return a, loadInsightsCmd(a.fetcher, a.pass, msg.User)

	case InsightsLoadedMsg:
		if msg.Pass != a.pass || a.phase != PhaseLoadingInsights {
			return a, nil
		}
		a.view = insights.BuildView(*msg.Payload, a.now())
		a.phase = PhaseReady
		a.loadTime = time.Since(a.started)
		a.scroll = 0
		return a, nil

	case LoadFailedMsg:
		if msg.Pass != a.pass || !a.loading() {
			return a, nil
		}
		a.phase = PhaseFailed
		a.failure = msg.Kind
		a.failErr = msg.Err
		a.view = insights.View{}
		return a, nil

	case spinner.TickMsg:
		if a.loading() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.loading() {
			return a, nil
		}
		return a.startPass()
	}

	if a.phase != PhaseReady {
		return a, nil
	}

	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		a.scroll = 0
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		a.scroll = 0
	case "j", "down":
		a.scroll++
	case "k", "up":
		a.scroll = max(a.scroll-1, 0)
	case "g":
		a.scroll = 0
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
				a.scroll = 0
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := saveSetup(*a.setupVals)
		a.setupErr = err
		if err == nil && a.reconfigure != nil {
			a.fetcher = a.reconfigure(cfg)
		}
		a.setupForm = nil
		return a.startPass()
	case huh.StateAborted:
		a.setupForm = nil
		return a.startPass()
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}

	switch a.phase {
	case PhaseResolvingUser, PhaseLoadingInsights:
		return a.viewLoading()
	case PhaseFailed:
		return a.viewFailed()
	default:
		return a.viewMain()
	}
}

func (a App) viewTooNarrow() string {
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  finsight needs at least %d columns.\n",
		a.width, minTerminalWidth)
	h := max(a.height, 5)
	return padHeight(truncateHeight(msg, h), h)
}

func overlayCard(body string) string {
	t := theme.Active
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
}

func (a App) place(card string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	step := "Resolving your account..."
	if a.phase == PhaseLoadingInsights {
		step = "Loading your insights..."
	}

	var b strings.Builder
	b.WriteString(logo.Render("◈ finsight"))
	b.WriteString(muted.Render(" · AI Insights"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(muted.Render(" " + step))

	return a.place(overlayCard(b.String()))
}

func (a App) viewFailed() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	heading := "Sign-in required"
	if a.failure == pipeline.FailureUnavailable {
		heading = "Insights unavailable"
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ " + heading))
	b.WriteString("\n\n")
	b.WriteString(text.Render(a.failure.Message()))
	b.WriteString("\n\n")
	if a.failure == pipeline.FailureUnauthenticated {
		b.WriteString(dim.Render("Run `finsight login` to get a token."))
		b.WriteString("\n")
	}
	b.WriteString(dim.Render("[r] try again   [q] quit"))

	return a.place(overlayCard(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"i t c", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Scroll"},
		{"r", "Reload (after a failure or to refresh)"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "%s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.place(overlayCard(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	state := fmt.Sprintf("user %s · loaded in %.1fs", a.user, a.loadTime.Seconds())
	if a.setupErr != nil {
		state = "config not saved: " + a.setupErr.Error()
	}
	statusBar := components.RenderStatusBar(w, "[?]help  [r]eload  [q]uit", state, "")

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderInsightsTab(cw)
	case 1:
		content = a.renderTrendsTab(cw)
	case 2:
		content = a.renderCategoriesTab(cw)
	}

	content = scrollLines(content, a.scroll)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// ─── Commands ───────────────────────────────────────────────────

func resolveUserCmd(f pipeline.Fetcher, pass int) tea.Cmd {
	return func() tea.Msg {
		id, err := pipeline.ResolveUser(context.Background(), f)
		if err != nil {
			return LoadFailedMsg{Pass: pass, Kind: pipeline.FailureUnauthenticated, Err: err}
		}
		return UserResolvedMsg{Pass: pass, User: id}
	}
}

func loadInsightsCmd(f pipeline.Fetcher, pass int, id pipeline.UserID) tea.Cmd {
	return func() tea.Msg {
		p, err := pipeline.LoadInsights(context.Background(), f, id)
		if err != nil {
			return LoadFailedMsg{Pass: pass, Kind: pipeline.Classify(err), Err: err}
		}
		return InsightsLoadedMsg{Pass: pass, Payload: p}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	offset = min(offset, max(len(lines)-1, 0))
	return strings.Join(lines[offset:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
