package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/services"
	"github.com/kamal-hamza/qrx/pkg/metadata"
	"github.com/kamal-hamza/qrx/pkg/ui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"ui"},
	Short:   "Browse stored records interactively (alias: ui)",
	Long: `Launch a full-screen browser over the vault.

The left pane lists records, the right pane previews the selected grid
and its metadata.

Keyboard Shortcuts:
  ↑/k ↓/j     Move
  g / G       Jump to top / bottom
  /           Search
  d           Delete record
  PgUp/PgDn   Scroll preview
  ?           Help
  q           Quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := listService.Execute(ctx, services.ListRequest{SortBy: "name"})
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	src := browseSource{
		search: func(query string) ([]domain.RecordHeader, error) {
			res, err := listService.Search(ctx, services.SearchRequest{Query: query})
			if err != nil {
				return nil, err
			}
			return res.Records, nil
		},
		load: func(slug string) (*domain.StoredRecord, error) {
			return recordRepo.Get(ctx, slug)
		},
		remove: func(slug string) error {
			return recordRepo.Delete(ctx, slug)
		},
	}

	m := newBrowseModel(ctx, resp.Records, src)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}

	return nil
}

// browseSource is the data the browser reads and mutates
type browseSource struct {
	search func(query string) ([]domain.RecordHeader, error)
	load   func(slug string) (*domain.StoredRecord, error)
	remove func(slug string) error
}

type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeHelp
	modeConfirmDelete
)

type previewState struct {
	slug     string
	viewport viewport.Model
}

type browseModel struct {
	ctx             context.Context
	src             browseSource
	records         []domain.RecordHeader
	filteredRecords []domain.RecordHeader
	cursor          int
	offset          int
	mode            viewMode
	searchInput     textinput.Model
	help            help.Model
	keys            keyMap
	width           int
	height          int
	ready           bool
	message         string
	messageStyle    lipgloss.Style
	messageExpiry   time.Time
	deleteTarget    *domain.RecordHeader
	preview         previewState
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Delete  key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.Delete},
		{k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

func newBrowseModel(ctx context.Context, records []domain.RecordHeader, src browseSource) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Search records..."
	ti.CharLimit = 100
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	return browseModel{
		ctx:             ctx,
		src:             src,
		records:         records,
		filteredRecords: records,
		mode:            modeList,
		searchInput:     ti,
		help:            help.New(),
		keys:            keys,
		preview: previewState{
			viewport: vp,
		},
	}
}

func (m browseModel) Init() tea.Cmd {
	if len(m.records) > 0 {
		return m.loadPreview(m.records[0])
	}
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		m.preview.viewport.Width = max(msg.Width/2-4, 20)
		m.preview.viewport.Height = max(msg.Height-16, 10)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, nil

	case previewLoadedMsg:
		m.preview.slug = msg.slug
		m.preview.viewport.SetContent(msg.content)
		m.preview.viewport.GotoTop()
		return m, nil

	case recordDeletedMsg:
		m.removeRecord(msg.slug)
		m.message = fmt.Sprintf("Deleted: %s", msg.name)
		m.messageStyle = ui.StyleSuccess
		m.messageExpiry = time.Now().Add(3 * time.Second)
		if len(m.filteredRecords) > 0 {
			return m, m.loadPreview(m.filteredRecords[m.cursor])
		}
		m.preview.slug = ""
		m.preview.viewport.SetContent("")
		return m, nil
	}

	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m.moveTo(m.cursor - 1)

	case key.Matches(msg, m.keys.Down):
		return m.moveTo(m.cursor + 1)

	case key.Matches(msg, m.keys.Top):
		return m.moveTo(0)

	case key.Matches(msg, m.keys.Bottom):
		return m.moveTo(len(m.filteredRecords) - 1)

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()

	case key.Matches(msg, m.keys.Delete):
		if len(m.filteredRecords) > 0 {
			target := m.filteredRecords[m.cursor]
			m.deleteTarget = &target
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.filteredRecords = m.records
		m.cursor = 0
		m.offset = 0
		if len(m.filteredRecords) > 0 {
			return m, m.loadPreview(m.filteredRecords[0])
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil

	// j/k are typed into the query here, so only arrows navigate
	case msg.Type == tea.KeyUp:
		return m.moveTo(m.cursor - 1)

	case msg.Type == tea.KeyDown:
		return m.moveTo(m.cursor + 1)

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()

	default:
		var cmd tea.Cmd
		oldQuery := m.searchInput.Value()
		m.searchInput, cmd = m.searchInput.Update(msg)
		if m.searchInput.Value() == oldQuery {
			return m, cmd
		}
		m.applySearch()
		if len(m.filteredRecords) > 0 {
			return m, tea.Batch(cmd, m.loadPreview(m.filteredRecords[m.cursor]))
		}
		return m, cmd
	}

	return m, nil
}

func (m browseModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m browseModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.deleteTarget
		m.deleteTarget = nil
		m.mode = modeList
		return m, m.deleteRecord(target)

	case key.Matches(msg, m.keys.Cancel):
		m.deleteTarget = nil
		m.mode = modeList
	}
	return m, nil
}

// moveTo places the cursor at index, clamped to the list, and reloads the preview
func (m browseModel) moveTo(index int) (tea.Model, tea.Cmd) {
	if len(m.filteredRecords) == 0 {
		return m, nil
	}
	index = max(0, min(index, len(m.filteredRecords)-1))
	if index == m.cursor && m.preview.slug == m.filteredRecords[index].Slug {
		return m, nil
	}
	m.cursor = index
	m.adjustViewport()
	return m, m.loadPreview(m.filteredRecords[m.cursor])
}

func (m browseModel) View() string {
	if !m.ready {
		return "\n  Loading records..."
	}

	switch m.mode {
	case modeHelp:
		return m.viewHelp()
	case modeConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m browseModel) viewList() string {
	listWidth := max(int(float64(m.width)*0.4), 30)
	previewWidth := m.width - listWidth - 2

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")

	listLines := strings.Split(m.renderRecordList(listWidth), "\n")
	var previewLines []string
	if previewWidth >= 30 {
		previewLines = strings.Split(m.renderPreview(previewWidth), "\n")
	}

	for i := 0; i < max(len(listLines), len(previewLines)); i++ {
		var listLine, previewLine string
		if i < len(listLines) {
			listLine = listLines[i]
		}
		if i < len(previewLines) {
			previewLine = previewLines[i]
		}

		s.WriteString(padRight(listLine, listWidth))
		s.WriteString("  ")
		s.WriteString(previewLine)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())

	return s.String()
}

func (m browseModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	s.WriteString(titleStyle.Render("QRX Browser - Keyboard Shortcuts"))
	s.WriteString("\n\n")
	s.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  PgUp/PgDn scroll the preview pane"))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return"))
	s.WriteString("\n")

	return s.String()
}

func (m browseModel) viewConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	content := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		ui.StyleWarning.Bold(true).Render(ui.IconWarning+"  Delete Record?"),
		ui.StylePrimary.Bold(true).Render(m.deleteTarget.Name),
		ui.StyleMuted.Render(m.deleteTarget.Slug),
		"Press 'y' to confirm, 'n' or ESC to cancel",
	)

	box := boxStyle.Render(content)
	top := max((m.height-lipgloss.Height(box))/2, 0)

	return strings.Repeat("\n", top) + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, box)
}

func (m browseModel) renderHeader() string {
	title := ui.StylePrimary.Bold(true).Padding(0, 1).Render(ui.IconGrid + " QRX Records")

	location := ""
	if appVault != nil {
		location = appVault.RecordsPath
		if home, err := os.UserHomeDir(); err == nil {
			location = strings.Replace(location, home, "~", 1)
		}
	}
	stats := ui.StyleMuted.Render(fmt.Sprintf("%d records  %s", len(m.filteredRecords), location))

	spacer := max(m.width-lipgloss.Width(title)-lipgloss.Width(stats), 0)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m browseModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(m.width-4, 10))

	content := m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = ui.StyleMuted.Render("Press / to search...")
	}

	return searchStyle.Render(content)
}

func (m browseModel) renderRecordList(width int) string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Padding(2, 2).
		Width(width)

	if len(m.filteredRecords) == 0 {
		if m.searchInput.Value() != "" {
			return emptyStyle.Render("No records match your search.")
		}
		return emptyStyle.Render("No records found. Use 'qrx import' to add one.")
	}

	var s strings.Builder
	end := min(m.offset+m.listHeight(), len(m.filteredRecords))
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderRecordItem(m.filteredRecords[i], i == m.cursor, width))
	}
	return s.String()
}

func (m browseModel) renderRecordItem(h domain.RecordHeader, selected bool, width int) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		nameStyle = ui.StylePrimary.Bold(true)
	}

	dims := h.GetDimensions()
	nameWidth := max(width-lipgloss.Width(dims)-4, 10)

	line := fmt.Sprintf("%s%s %s",
		cursor,
		padRight(nameStyle.Render(truncate(h.Name, nameWidth)), nameWidth),
		ui.StyleMuted.Render(dims),
	)
	return padRight(line, width) + "\n"
}

func (m browseModel) renderPreview(width int) string {
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(width - 2).
		Height(max(m.height-12, 5))

	placeholder := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1)

	if m.preview.slug == "" {
		if len(m.filteredRecords) == 0 {
			return borderStyle.Render(placeholder.Render("No record selected"))
		}
		return borderStyle.Render(placeholder.Render("Loading preview..."))
	}

	scroll := ui.StyleMuted.Render(fmt.Sprintf("PgUp/PgDn to scroll • %d%%", int(m.preview.viewport.ScrollPercent()*100)))
	return borderStyle.Render(scroll + "\n" + m.preview.viewport.View())
}

func (m browseModel) renderFooter() string {
	status := ui.StyleMuted.Render("Ready")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		status = m.messageStyle.Render(m.message)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys)))
}

func (m browseModel) listHeight() int {
	return max(m.height-10, 3)
}

func (m *browseModel) adjustViewport() {
	height := m.listHeight()
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m *browseModel) applySearch() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredRecords = m.records
	} else if m.src.search != nil {
		results, err := m.src.search(query)
		if err == nil {
			m.filteredRecords = results
		}
	}

	m.cursor = max(0, min(m.cursor, len(m.filteredRecords)-1))
	m.adjustViewport()
}

// removeRecord drops slug from both the full and the filtered list
func (m *browseModel) removeRecord(slug string) {
	m.records = withoutSlug(m.records, slug)
	m.filteredRecords = withoutSlug(m.filteredRecords, slug)
	m.cursor = max(0, min(m.cursor, len(m.filteredRecords)-1))
	m.adjustViewport()
}

func withoutSlug(headers []domain.RecordHeader, slug string) []domain.RecordHeader {
	out := make([]domain.RecordHeader, 0, len(headers))
	for _, h := range headers {
		if h.Slug != slug {
			out = append(out, h)
		}
	}
	return out
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Messages

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type previewLoadedMsg struct {
	slug    string
	content string
}

type recordDeletedMsg struct {
	slug string
	name string
}

func (m browseModel) loadPreview(h domain.RecordHeader) tea.Cmd {
	load := m.src.load
	return func() tea.Msg {
		if load == nil {
			return previewLoadedMsg{slug: h.Slug, content: recordPreview(h)}
		}
		stored, err := load(h.Slug)
		if err != nil {
			return previewLoadedMsg{
				slug:    h.Slug,
				content: fmt.Sprintf("Error loading preview: %v", err),
			}
		}
		return previewLoadedMsg{slug: h.Slug, content: renderRecordPreview(stored)}
	}
}

func (m browseModel) deleteRecord(h *domain.RecordHeader) tea.Cmd {
	remove := m.src.remove
	return func() tea.Msg {
		if h == nil || remove == nil {
			return nil
		}
		if err := remove(h.Slug); err != nil {
			return statusMsg{
				message: fmt.Sprintf("Failed to delete: %v", err),
				style:   ui.StyleError,
			}
		}
		return recordDeletedMsg{slug: h.Slug, name: h.Name}
	}
}

// renderRecordPreview shows the grid followed by its sidecar metadata
func renderRecordPreview(stored *domain.StoredRecord) string {
	var s strings.Builder

	s.WriteString(ui.StylePrimary.Bold(true).Render(stored.Header.Name))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render(stored.Record.Describe()))
	s.WriteString("\n\n")
	s.WriteString(ui.RenderGrid(stored.Record.Grid().Render()))
	s.WriteString("\n")

	h := stored.Header
	data, err := metadata.Format(&metadata.Metadata{
		ID:         h.ID,
		Name:       h.Name,
		Owner:      h.Owner,
		LastUpdate: h.LastUpdate,
		Tolerance:  h.Tolerance,
		Rows:       h.Rows,
		Cols:       h.Cols,
		Source:     h.Source,
		ImportedAt: h.ImportedAt,
	})
	if err == nil {
		s.WriteString(highlightYAML(string(data)))
	}

	return s.String()
}

// highlightYAML colours YAML for the terminal, returning content unchanged on failure
func highlightYAML(content string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatters.TTY16m.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
