// Package tui is an interactive terminal game against the computer player.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/cardsgame/internal/deck"
	"github.com/lox/cardsgame/internal/game"
	"github.com/lox/cardsgame/internal/service"
)

const sidebarWidth = 26

// Messages produced by service commands.
type (
	gameLoadedMsg struct{ game *game.Game }
	handDealtMsg  struct{ game *game.Game }
	turnPlayedMsg struct {
		game   *game.Game
		result *game.TurnResult
	}
	errMsg struct {
		err  error
		deal bool // the failed operation was dealing the next turn
	}
)

// Model is the Bubble Tea model for one player's session.
type Model struct {
	ctx    context.Context
	svc    *service.Service
	logger *log.Logger
	player string
	gameID string

	game        *game.Game
	logViewport viewport.Model
	input       textinput.Model
	gameLog     []string
	focusedPane int // 0 = log, 1 = input
	busy        bool
	dealPending bool
	quitting    bool

	width  int
	height int
}

// New creates a model. If gameID is empty a new game is created for player.
func New(ctx context.Context, svc *service.Service, player, gameID string, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "pick two cards, e.g. 0 2 (new, quit)"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusedColor).Bold(true)
	ti.Prompt = "> "

	return &Model{
		ctx:         ctx,
		svc:         svc,
		logger:      logger.WithPrefix("tui"),
		player:      player,
		gameID:      gameID,
		logViewport: vp,
		input:       ti,
		focusedPane: 1,
	}
}

// Init loads or creates the game.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	if m.gameID != "" {
		return tea.Batch(textinput.Blink, m.loadGame(m.gameID))
	}
	return tea.Batch(textinput.Blink, m.createGame())
}

// Game returns the game as last seen.
func (m *Model) Game() *game.Game {
	return m.game
}

func (m *Model) createGame() tea.Cmd {
	return func() tea.Msg {
		g, err := m.svc.CreateGame(m.ctx, m.player)
		if err != nil {
			return errMsg{err: err}
		}
		return gameLoadedMsg{g}
	}
}

func (m *Model) loadGame(id string) tea.Cmd {
	return func() tea.Msg {
		g, err := m.svc.GetGame(m.ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return gameLoadedMsg{g}
	}
}

func (m *Model) dealHand() tea.Cmd {
	id := m.game.ID
	return func() tea.Msg {
		g, err := m.svc.DealHand(m.ctx, id)
		if err != nil {
			return errMsg{err: err, deal: true}
		}
		return handDealtMsg{g}
	}
}

func (m *Model) playTurn(sel []int) tea.Cmd {
	id := m.game.ID
	return func() tea.Msg {
		g, result, err := m.svc.PlayTurn(m.ctx, id, sel, nil)
		if err != nil {
			return errMsg{err: err}
		}
		return turnPlayedMsg{g, result}
	}
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gameLoadedMsg:
		m.busy = false
		m.dealPending = false
		m.game = msg.game
		m.appendLog(HeaderStyle.Render(fmt.Sprintf(" Game %s: %s vs %s ", msg.game.ID, msg.game.NameP1, msg.game.NameP2)))
		if cmd := m.next(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case handDealtMsg:
		m.busy = false
		m.game = msg.game
		m.appendLog(m.renderDeal(msg.game))

	case turnPlayedMsg:
		m.busy = false
		m.game = msg.game
		m.appendLog(m.renderTurn(msg.result))
		if cmd := m.next(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case errMsg:
		m.busy = false
		m.logger.Debug("Operation failed", "error", msg.err, "code", game.Code(msg.err))
		m.appendLog(ErrorStyle.Render("Error: " + msg.err.Error()))
		if msg.deal {
			m.dealPending = true
			m.appendLog(InfoStyle.Render("Press enter to deal again."))
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				cmd := m.submit(strings.TrimSpace(m.input.Value()))
				m.input.SetValue("")
				if cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// next deals the following turn, or announces the result of a finished game.
func (m *Model) next() tea.Cmd {
	switch m.game.State() {
	case game.StateFinished:
		m.appendLog(m.renderGameOver(m.game))
		return nil
	case game.StateHandsDealt:
		m.appendLog(m.renderDeal(m.game))
		return nil
	default:
		m.busy = true
		return m.dealHand()
	}
}

func (m *Model) submit(text string) tea.Cmd {
	switch strings.ToLower(text) {
	case "quit", "q", "exit":
		m.quitting = true
		return tea.Quit
	case "new", "n":
		m.busy = true
		return m.createGame()
	}

	// Reload before dealing again; the failed deal may have landed
	// through another writer.
	if m.dealPending && !m.busy && m.game != nil {
		m.dealPending = false
		m.busy = true
		return m.loadGame(m.game.ID)
	}
	if text == "" {
		return nil
	}

	if m.busy || m.game == nil {
		m.appendLog(InfoStyle.Render("Waiting for the game..."))
		return nil
	}
	if m.game.Finished {
		m.appendLog(InfoStyle.Render("This game is over. Type 'new' to play again."))
		return nil
	}
	sel, err := ParseSelection(text)
	if err != nil {
		m.appendLog(ErrorStyle.Render(err.Error()))
		return nil
	}
	m.busy = true
	return m.playTurn(sel)
}

// ParseSelection reads card indexes separated by spaces or commas.
func ParseSelection(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no card indexes given", game.ErrInvalidSelection)
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a card index", game.ErrInvalidSelection, f)
		}
		out[i] = n
	}
	return out, nil
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	inputPane := paneStyle.
		Width(max(m.width-2, 1)).
		BorderForeground(focusedColor).
		Render(m.input.View())
	inputHeight := lipgloss.Height(inputPane)

	paneHeight := max(m.height-inputHeight-2, 1)
	sidebar := paneStyle.
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebar())

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	logStyle := paneStyle.Width(logWidth).Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(focusedColor)
	}
	logPane := logStyle.Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Top, top, inputPane)
}

func (m *Model) renderSidebar() string {
	g := m.game
	if g == nil {
		return InfoStyle.Render("No game")
	}
	var b strings.Builder
	if g.CurrentTarget > 0 {
		b.WriteString(TargetStyle.Render(fmt.Sprintf("Target: %d", g.CurrentTarget)))
	} else {
		b.WriteString(InfoStyle.Render("Target: -"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Turn: %d\n\n", g.NumTurns)
	fmt.Fprintf(&b, "%s\n  deck %d, won %d\n",
		PlayerOneStyle.Render(g.NameP1), g.DeckP1.Len(), g.History.TurnWins(g.NameP1))
	fmt.Fprintf(&b, "%s\n  deck %d, won %d\n",
		PlayerTwoStyle.Render(g.NameP2), g.DeckP2.Len(), g.History.TurnWins(g.NameP2))
	return b.String()
}

func renderCard(c deck.Card, special map[int]string) string {
	if c.Suit.IsRed() {
		return RedCardStyle.Render(c.Label(special))
	}
	return BlackCardStyle.Render(c.Label(special))
}

func renderHand(cards []deck.Card, special map[int]string) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("[%d] %s", i, renderCard(c, special))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderDeal(g *game.Game) string {
	special := g.DeckP1.SpecialRanks
	return fmt.Sprintf("\nTurn %d, target %s\n%s: %s",
		g.NumTurns+1,
		TargetStyle.Render(strconv.Itoa(g.CurrentTarget)),
		PlayerOneStyle.Render(g.NameP1),
		renderHand(g.HandP1, special))
}

func (m *Model) renderTurn(r *game.TurnResult) string {
	special := m.game.DeckP1.SpecialRanks
	var b strings.Builder
	fmt.Fprintf(&b, "%s picked %s = %d\n",
		PlayerOneStyle.Render(r.NameP1), pickedLabels(r.HandP1, r.IndexesP1, special), r.SumP1)
	fmt.Fprintf(&b, "%s picked %s = %d\n",
		PlayerTwoStyle.Render(r.NameP2), pickedLabels(r.HandP2, r.IndexesP2, special), r.SumP2)
	switch r.TurnWinner {
	case "":
		b.WriteString(TieStyle.Render("Tie, nobody wins the turn"))
	case r.NameP1:
		b.WriteString(PlayerOneStyle.Render(r.NameP1 + " wins the turn"))
	default:
		b.WriteString(PlayerTwoStyle.Render(r.NameP2 + " wins the turn"))
	}
	return b.String()
}

func pickedLabels(hand []deck.Card, idx []int, special map[int]string) string {
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(hand) {
			parts = append(parts, renderCard(hand[i], special))
		}
	}
	return strings.Join(parts, " + ")
}

func (m *Model) renderGameOver(g *game.Game) string {
	winsP1 := g.History.TurnWins(g.NameP1)
	winsP2 := g.History.TurnWins(g.NameP2)
	score := fmt.Sprintf("(%d-%d after %d turns)", winsP1, winsP2, g.NumTurns)
	switch g.Winner {
	case "":
		return "\n" + TieStyle.Render("Game drawn "+score)
	case g.NameP1:
		return "\n" + PlayerOneStyle.Render(g.Winner+" wins the game "+score)
	default:
		return "\n" + PlayerTwoStyle.Render(g.Winner+" wins the game "+score)
	}
}

// Run starts the interactive program.
func Run(ctx context.Context, svc *service.Service, player, gameID string, logger *log.Logger) (*game.Game, error) {
	m := New(ctx, svc, player, gameID, logger)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	return final.(*Model).Game(), nil
}
