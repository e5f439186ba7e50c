package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

const placeholderText = "start | buy <material> | craft <slot> | sell <item#> <human|monster> | choose <id> | upgrade <track>"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	cat      *catalog.Catalog
	snap     *engine.Snapshot
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int
	err      error
	notice   string
	loading  bool
}

type snapshotMsg struct {
	snap *engine.Snapshot
	err  error
}

type refreshTickMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	humanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	monsterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	eventStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, cat *catalog.Catalog, snap *engine.Snapshot) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = placeholderText
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 120

	vp := viewport.New(80, 24)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:   cfg,
		client:   client,
		cat:      cat,
		snap:     snap,
		viewport: vp,
		input:    ti,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refreshTick())
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m ConsoleUI) refreshCmd() tea.Cmd {
	id := m.snap.ID
	return func() tea.Msg {
		snap, err := getSnapshot(m.client, m.config.APIBaseURL, id)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m ConsoleUI) commandCmd(cmd commandRequest) tea.Cmd {
	id := m.snap.ID
	return func() tea.Msg {
		snap, err := postCommand(m.client, m.config.APIBaseURL, id, cmd)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.input.Width = msg.Width - 6
		m.ready = true

	case refreshTickMsg:
		cmds = append(cmds, m.refreshCmd(), refreshTick())

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snap = msg.snap
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				break
			}
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			req, err := parseCommand(line, m.snap)
			if err != nil {
				m.err = err
				break
			}
			m.err = nil
			m.notice = ""
			m.loading = true
			cmds = append(cmds, m.commandCmd(req))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// parseCommand maps a console line to a command envelope. Inventory items
// may be addressed by their list number.
func parseCommand(line string, snap *engine.Snapshot) (commandRequest, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "start":
		return commandRequest{Type: "start_game"}, nil
	case "reset":
		return commandRequest{Type: "reset_game"}, nil
	case "buy":
		if len(fields) != 2 {
			return commandRequest{}, fmt.Errorf("usage: buy <material-id>")
		}
		return commandRequest{Type: "purchase_material", MaterialID: fields[1]}, nil
	case "craft":
		if len(fields) != 2 {
			return commandRequest{}, fmt.Errorf("usage: craft <slot>")
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return commandRequest{}, fmt.Errorf("slot must be a number")
		}
		return commandRequest{Type: "start_production", SlotID: slot}, nil
	case "sell":
		if len(fields) != 3 {
			return commandRequest{}, fmt.Errorf("usage: sell <item#> <human|monster>")
		}
		itemID := fields[1]
		if n, err := strconv.Atoi(itemID); err == nil {
			if n < 1 || n > len(snap.Inventory) {
				return commandRequest{}, fmt.Errorf("no inventory item %d", n)
			}
			itemID = snap.Inventory[n-1].ID
		}
		buyer := strings.ToUpper(fields[2])
		return commandRequest{Type: "sell_artifact", ItemID: itemID, Buyer: buyer}, nil
	case "choose":
		if len(fields) != 2 {
			return commandRequest{}, fmt.Errorf("usage: choose <choice-id>")
		}
		return commandRequest{Type: "resolve_choice", ChoiceID: strings.ToUpper(fields[1])}, nil
	case "dismiss":
		return commandRequest{Type: "dismiss_event"}, nil
	case "upgrade":
		if len(fields) != 2 {
			return commandRequest{}, fmt.Errorf("usage: upgrade <speed|quality|slots>")
		}
		return commandRequest{Type: "upgrade", Track: strings.ToLower(fields[1])}, nil
	default:
		return commandRequest{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	m.viewport.SetContent(m.renderGame())

	status := ""
	switch {
	case m.err != nil:
		status = errorStyle.Render(m.err.Error())
	case m.loading:
		status = dimStyle.Render("...")
	case m.notice != "":
		status = noticeStyle.Render(m.notice)
	}

	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), status, m.input.View())
}

func (m ConsoleUI) renderGame() string {
	s := m.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render("Grimoire Merchant"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  session %s", s.ID)))
	b.WriteString("\n\n")

	if !s.Started {
		b.WriteString(noticeStyle.Render("Type 'start' to begin.") + "\n\n")
	}
	if s.GameOver {
		winner := "Humans"
		if s.HumanPower <= 0 {
			winner = "Monsters"
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("GAME OVER - %s rule the world. Type 'reset' to play again.", winner)) + "\n\n")
	}

	b.WriteString(fmt.Sprintf("%s   Year %d, Day %d of %s\n",
		goldStyle.Render(fmt.Sprintf("%d gold", s.Gold)),
		s.Calendar.Year, s.Calendar.Day+1, catalog.DisplayName(string(s.Calendar.Season))))

	b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
		humanStyle.Render("Humans"), powerBar(s.HumanPower),
		monsterStyle.Render("Monsters"), fmt.Sprintf("%.1f / %.1f", s.HumanPower, s.MonsterPower)))

	b.WriteString(fmt.Sprintf("Reputation: %s %.1f  %s %.1f    Market: trend %+.2f, volatility %.2f\n\n",
		humanStyle.Render("H"), s.Reputation.Human,
		monsterStyle.Render("M"), s.Reputation.Monster,
		s.MarketTrend, s.Volatility))

	b.WriteString(sectionStyle.Render("Workshop") + "\n")
	for _, slot := range s.Slots {
		state := "idle"
		if slot.Active {
			state = fmt.Sprintf("crafting %3.0f%% (%ds left)", slot.Progress, slot.TimeRemaining)
		}
		b.WriteString(fmt.Sprintf("  [%d] %-10s L%d  %s\n",
			slot.ID, catalog.DisplayName(string(slot.Element)), slot.Level, state))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  upgrades: speed %d, quality %d, slots %d\n",
		s.Upgrades.Speed, s.Upgrades.Quality, s.Upgrades.Slots)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Inventory") + "\n")
	if len(s.Inventory) == 0 {
		b.WriteString(dimStyle.Render("  (empty)") + "\n")
	}
	for i, item := range s.Inventory {
		if item.Kind == engine.ItemArtifact {
			b.WriteString(fmt.Sprintf("  %2d. %s (quality %.0f)\n", i+1, item.Name, item.Quality))
		} else {
			b.WriteString(fmt.Sprintf("  %2d. %s\n", i+1, item.Name))
		}
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Shop") + "\n")
	for _, el := range m.cat.Elements {
		parts := make([]string, 0, len(el.Materials))
		for _, mat := range el.Materials {
			parts = append(parts, fmt.Sprintf("%s %s", mat.ID, goldStyle.Render(strconv.Itoa(mat.Price))))
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", el.Name, dimStyle.Render(strings.Join(parts, "  "))))
	}
	b.WriteString("\n")

	if s.ActiveEvent != nil {
		b.WriteString(m.renderEvent(s.ActiveEvent))
	}
	if s.Notice != nil {
		b.WriteString(eventStyle.Render(
			noticeStyle.Render(s.Notice.Name)+"\n"+
				wordwrap.String(s.Notice.Description, max(20, m.width-8))+"\n"+
				dimStyle.Render("type 'dismiss' to acknowledge")) + "\n")
	}

	return b.String()
}

func (m ConsoleUI) renderEvent(ev *engine.ActiveEvent) string {
	var b strings.Builder
	b.WriteString(noticeStyle.Render(ev.Name))
	if ev.RemainingSeconds > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%ds remaining)", ev.RemainingSeconds)))
	}
	b.WriteString("\n")
	b.WriteString(wordwrap.String(ev.Description, max(20, m.width-8)))
	if ev.AwaitingChoice {
		if spec := m.cat.Event(ev.EventID); spec != nil {
			for _, ch := range spec.Choices {
				b.WriteString(fmt.Sprintf("\n  %s - %s", noticeStyle.Render(ch.ID), ch.Text))
			}
		}
		b.WriteString("\n" + dimStyle.Render("decide with 'choose <id>'"))
	}
	if ev.Resolved && ev.ResolvedChoiceID != "" {
		b.WriteString("\n" + dimStyle.Render("resolved: "+ev.ResolvedChoiceID))
	}
	return eventStyle.Render(b.String()) + "\n"
}

func powerBar(humanPower float64) string {
	const width = 30
	filled := int(humanPower / 100 * width)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return humanStyle.Render(strings.Repeat("█", filled)) +
		monsterStyle.Render(strings.Repeat("░", width-filled))
}
