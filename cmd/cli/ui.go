package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"acquire-server/internal/delivery/dto"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#06B6D4")
	accentColor    = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	textColor      = lipgloss.Color("#F8FAFC")
	mutedColor     = lipgloss.Color("#94A3B8")

	baseStyle = lipgloss.NewStyle().Foreground(textColor)

	basePanelStyle = baseStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Margin(1, 0)

	headerStyle = baseStyle.Foreground(primaryColor).Bold(true).Align(lipgloss.Center)

	activeStyle    = baseStyle.Foreground(accentColor).Bold(true)
	inactiveStyle  = baseStyle.Foreground(mutedColor)
	tileStyle      = baseStyle.Foreground(secondaryColor)
	emptyTileStyle = baseStyle.Foreground(mutedColor)
)

// UI renders a read-only snapshot of a lobby or game to the terminal,
// falling back to a plain (non-bordered) rendering when stdout is not
// a TTY, mirroring the teacher's cmd/cli UI but reduced to a
// single-frame, non-interactive renderer.
type UI struct {
	termWidth int
	isTTY     bool
}

func NewUI() *UI {
	ui := &UI{}
	ui.detectTerminal()
	return ui
}

func (ui *UI) detectTerminal() {
	fd := int(os.Stdout.Fd())
	ui.isTTY = term.IsTerminal(fd)
	width, _, err := term.GetSize(fd)
	if err != nil || width < 40 {
		width = 100
	}
	ui.termWidth = width
}

func (ui *UI) clear() {
	if ui.isTTY {
		fmt.Print("\033[2J\033[H")
	}
}

// RenderLobby draws a waiting-room view: seated players and whether
// the host can start yet.
func (ui *UI) RenderLobby(status dto.LobbyStatusResponse) {
	ui.detectTerminal()
	ui.clear()

	var lines []string
	lines = append(lines, fmt.Sprintf("Host: %s", status.Host))
	lines = append(lines, fmt.Sprintf("Players (%d): %s", len(status.Players), strings.Join(status.Players, ", ")))
	switch {
	case status.HasExpired:
		lines = append(lines, inactiveStyle.Render("lobby expired"))
	case status.IsPossibleToStart:
		lines = append(lines, activeStyle.Render("ready to start"))
	default:
		lines = append(lines, inactiveStyle.Render("waiting for players"))
	}

	content := headerStyle.Render("Lobby") + "\n\n" + strings.Join(lines, "\n")
	fmt.Println(ui.panel(content))
}

// RenderGame draws the board, corporation ledger, and visible player
// state for a single poll. Hidden-information fields (another
// player's hand/balance) are never present in the DTO the server
// sends, so nothing needs filtering here.
func (ui *UI) RenderGame(status dto.GameStatusResponse) {
	ui.detectTerminal()
	ui.clear()

	sections := []string{
		ui.renderHeader(status),
		ui.renderBoard(status),
		ui.renderCorporations(status),
		ui.renderPlayers(status),
	}
	fmt.Println(strings.Join(sections, "\n"))
}

func (ui *UI) RenderError(message string) {
	ui.detectTerminal()
	ui.clear()
	fmt.Println(ui.panel(baseStyle.Foreground(errorColor).Render(message)))
}

func (ui *UI) panel(content string) string {
	if !ui.isTTY {
		return content
	}
	return basePanelStyle.Render(content)
}

func (ui *UI) renderHeader(status dto.GameStatusResponse) string {
	lines := []string{
		fmt.Sprintf("State: %s", status.State),
		fmt.Sprintf("Current turn: %s", status.CurrentPlayer),
		fmt.Sprintf("You: %s  Balance: %d  Taking turn: %t", status.Self.Username, status.Self.Balance, status.Self.TakingTurn),
	}
	if status.Merger != nil {
		lines = append(lines, fmt.Sprintf("Merger: acquirer=%s defunct=%s remaining=%v",
			status.Merger.Acquirer, status.Merger.Defunct, status.Merger.DefunctsRemaining))
	}
	return ui.panel(headerStyle.Render("Acquire") + "\n\n" + strings.Join(lines, "\n"))
}

// renderBoard draws the occupied board cells as a grid, matching the
// boardgame package's 9-row by 12-column layout.
func (ui *UI) renderBoard(status dto.GameStatusResponse) string {
	const rows, cols = 9, 12
	occupied := make(map[[2]int]string, len(status.Board))
	for _, t := range status.Board {
		occupied[[2]int{t.Position.Row, t.Position.Col}] = t.BelongsTo
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if owner, ok := occupied[[2]int{r, c}]; ok {
				if owner == "" {
					b.WriteString(tileStyle.Render(pad("#", 4)))
				} else {
					b.WriteString(activeStyle.Render(pad(owner[:min(3, len(owner))], 4)))
				}
			} else {
				b.WriteString(emptyTileStyle.Render(pad(".", 4)))
			}
		}
		b.WriteString("\n")
	}

	return ui.panel(headerStyle.Render("Board") + "\n\n" + b.String())
}

func (ui *UI) renderCorporations(status dto.GameStatusResponse) string {
	corps := make([]dto.CorporationDTO, len(status.Corporations))
	copy(corps, status.Corporations)
	sort.Slice(corps, func(i, j int) bool { return corps[i].ID < corps[j].ID })

	var lines []string
	for _, corp := range corps {
		style := inactiveStyle
		if corp.Active {
			style = activeStyle
		}
		safe := ""
		if corp.Safe {
			safe = " [safe]"
		}
		lines = append(lines, style.Render(fmt.Sprintf("%-10s tier=%-6s size=%-3d price=%-4d shares=%-3d%s",
			corp.ID, corp.Tier, corp.Size, corp.Price, corp.RemainingShares, safe)))
	}

	return ui.panel(headerStyle.Render("Corporations") + "\n\n" + strings.Join(lines, "\n"))
}

func (ui *UI) renderPlayers(status dto.GameStatusResponse) string {
	var lines []string
	lines = append(lines, activeStyle.Render(fmt.Sprintf("%s (you): hand=%d shares=%v", status.Self.Username, len(status.Self.Hand), status.Self.Shares)))
	for _, p := range status.Players {
		turn := ""
		if p.TakingTurn {
			turn = " <- turn"
		}
		lines = append(lines, fmt.Sprintf("%s: hand=%d shares=%v%s", p.Username, p.HandSize, p.Shares, turn))
	}
	if len(status.Ranking) > 0 {
		lines = append(lines, "", headerStyle.Render("Final standings"))
		for i, r := range status.Ranking {
			lines = append(lines, fmt.Sprintf("%d. %s - %d", i+1, r.Username, r.Balance))
		}
	}

	return ui.panel(headerStyle.Render("Players") + "\n\n" + strings.Join(lines, "\n"))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
