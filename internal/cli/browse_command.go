package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-transcript-fetcher/internal/catalog"
	"yt-transcript-fetcher/internal/config"
	"yt-transcript-fetcher/internal/model"
	"yt-transcript-fetcher/internal/naming"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browseMode int

const (
	browseModeList browseMode = iota
	browseModeFilter
	browseModeClearConfirm
)

// browseRow addresses one video by its position in the catalogue so edits
// land on the persisted structure, not on a filtered copy.
type browseRow struct {
	creatorIdx int
	videoIdx   int
}

type browseModel struct {
	cataloguePath string
	outputDir     string

	cat    model.Catalogue
	rows   []browseRow
	cursor int
	width  int
	height int
	mode   browseMode

	filter        textinput.Model
	filterApplied string

	statusMessage string
	fatalErr      error
}

type browseLoadedMsg struct {
	cat model.Catalogue
	err error
}

type browseSavedMsg struct {
	cat     model.Catalogue
	message string
	err     error
}

var (
	browseTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	browseMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	browseErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	browseOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	browsePanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	browseSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	catalogue := fs.String("catalogue", "", "catalogue path (default from settings)")
	outputDir := fs.String("output-dir", "", "transcript output directory (default from settings)")
	settingsPath := fs.String("settings", config.DefaultPath, "settings file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("browse requires an interactive terminal (TTY)")
	}

	settings, err := config.Read(*settingsPath)
	if err != nil {
		return err
	}

	filter := textinput.New()
	filter.Placeholder = "creator, title, or video id"
	filter.CharLimit = 120

	m := browseModel{
		cataloguePath: pickPath(*catalogue, settings.CataloguePath),
		outputDir:     pickPath(*outputDir, settings.OutputDir),
		mode:          browseModeList,
		filter:        filter,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("browse requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(browseModel); ok {
		return fm.fatalErr
	}
	return nil
}

func (m browseModel) Init() tea.Cmd {
	return loadCatalogueCmd(m.cataloguePath)
}

func loadCatalogueCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cat, err := catalog.Load(path)
		return browseLoadedMsg{cat: cat, err: err}
	}
}

func saveCatalogueCmd(path string, cat model.Catalogue, message string) tea.Cmd {
	return func() tea.Msg {
		if err := catalog.Save(cat, path); err != nil {
			return browseSavedMsg{err: err}
		}
		return browseSavedMsg{cat: cat, message: message}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = clampInt(m.width-20, 20, 80)
		return m, nil
	case browseLoadedMsg:
		if msg.err != nil {
			m.fatalErr = msg.err
			return m, tea.Quit
		}
		m.cat = msg.cat
		m.rebuildRows()
		return m, nil
	case browseSavedMsg:
		if msg.err != nil {
			m.statusMessage = "error: " + msg.err.Error()
			return m, nil
		}
		m.cat = msg.cat
		m.rebuildRows()
		m.statusMessage = msg.message
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case browseModeList:
		return m.updateList(keyMsg)
	case browseModeFilter:
		return m.updateFilter(keyMsg)
	case browseModeClearConfirm:
		return m.updateClearConfirm(keyMsg)
	default:
		return m, nil
	}
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case "/":
		m.mode = browseModeFilter
		m.filter.SetValue(m.filterApplied)
		m.filter.Focus()
		m.statusMessage = ""
		return m, textinput.Blink
	case "esc":
		if m.filterApplied != "" {
			m.filterApplied = ""
			m.rebuildRows()
			m.statusMessage = "filter cleared"
		}
		return m, nil
	case "r":
		return m, loadCatalogueCmd(m.cataloguePath)
	case " ", "space":
		video := m.selectedVideo()
		if video == nil {
			return m, nil
		}
		video.CaptionsAvailable = nextCaptionState(video.CaptionsAvailable)
		return m, saveCatalogueCmd(m.cataloguePath, m.cat,
			fmt.Sprintf("updated %s captions: %s", video.VideoID, video.CaptionsAvailable))
	case "1":
		video := m.selectedVideo()
		if video == nil {
			return m, nil
		}
		video.FetchedPrimary = !video.FetchedPrimary
		return m, saveCatalogueCmd(m.cataloguePath, m.cat,
			fmt.Sprintf("updated %s fetched_primary: %s", video.VideoID, yesNo(video.FetchedPrimary)))
	case "2":
		video := m.selectedVideo()
		if video == nil {
			return m, nil
		}
		video.FetchedSecondary = !video.FetchedSecondary
		return m, saveCatalogueCmd(m.cataloguePath, m.cat,
			fmt.Sprintf("updated %s fetched_secondary: %s", video.VideoID, yesNo(video.FetchedSecondary)))
	case "c":
		if m.selectedVideo() == nil {
			m.statusMessage = "select a video to clear"
			return m, nil
		}
		m.mode = browseModeClearConfirm
		return m, nil
	}
	return m, nil
}

func (m browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mode = browseModeList
		m.filter.Blur()
		return m, nil
	case "enter":
		m.mode = browseModeList
		m.filterApplied = strings.TrimSpace(m.filter.Value())
		m.filter.Blur()
		m.rebuildRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m browseModel) updateClearConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "n":
		m.mode = browseModeList
		m.statusMessage = "clear cancelled"
		return m, nil
	case "y", "enter":
		m.mode = browseModeList
		video := m.selectedVideo()
		if video == nil {
			return m, nil
		}
		video.FetchedPrimary = false
		video.FetchedSecondary = false
		video.CaptionsAvailable = model.CaptionsUnknown
		return m, saveCatalogueCmd(m.cataloguePath, m.cat,
			fmt.Sprintf("cleared flags for %s; next run refetches it", video.VideoID))
	}
	return m, nil
}

// rebuildRows re-derives the visible row set from the catalogue and the
// applied filter, keeping the cursor on a valid row.
func (m *browseModel) rebuildRows() {
	needle := strings.ToLower(m.filterApplied)
	m.rows = m.rows[:0]
	for ci := range m.cat.ContentResources {
		creator := &m.cat.ContentResources[ci]
		for vi := range creator.ContentCollection {
			if needle != "" && !videoMatches(creator, &creator.ContentCollection[vi], needle) {
				continue
			}
			m.rows = append(m.rows, browseRow{creatorIdx: ci, videoIdx: vi})
		}
	}
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func videoMatches(creator *model.Creator, video *model.Video, needle string) bool {
	return strings.Contains(strings.ToLower(creator.ContentCreator), needle) ||
		strings.Contains(strings.ToLower(video.VideoTitle), needle) ||
		strings.Contains(strings.ToLower(video.VideoID), needle)
}

func (m *browseModel) selectedVideo() *model.Video {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor]
	return &m.cat.ContentResources[row.creatorIdx].ContentCollection[row.videoIdx]
}

func (m *browseModel) selectedCreator() *model.Creator {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.cat.ContentResources[m.rows[m.cursor].creatorIdx]
}

func nextCaptionState(s model.CaptionState) model.CaptionState {
	switch s {
	case model.CaptionsUnknown:
		return model.CaptionsEnabled
	case model.CaptionsEnabled:
		return model.CaptionsDisabled
	default:
		return model.CaptionsUnknown
	}
}

func (m browseModel) View() string {
	if m.fatalErr != nil {
		return browseErrorStyle.Render("fatal: " + m.fatalErr.Error())
	}
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	if m.mode == browseModeClearConfirm {
		return m.viewClearConfirm()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := browseTitleStyle.Render("yt-transcript-fetcher browse") + "\n" +
		browseMutedStyle.Render("up/down: move | space: cycle captions | 1/2: toggle primary/fallback flag | c: clear flags | /: filter | r: reload | q: quit")

	var filterLine string
	if m.mode == browseModeFilter {
		filterLine = "filter: " + m.filter.View()
	} else if m.filterApplied != "" {
		filterLine = browseMutedStyle.Render("filter: " + m.filterApplied + " (esc clears)")
	}

	if m.width < 90 {
		list := m.renderListPanel(m.width)
		details := m.renderDetailsPanel(m.width)
		body := lipgloss.JoinVertical(lipgloss.Left, list, details)
		return joinNonEmpty(header, filterLine, body, m.renderStatusLine(m.width))
	}

	leftW := clampInt(m.width/2, 34, 60)
	rightW := m.width - leftW - 1
	list := m.renderListPanel(leftW)
	details := m.renderDetailsPanel(rightW)
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, details)
	return joinNonEmpty(header, filterLine, body, m.renderStatusLine(m.width))
}

func (m browseModel) renderListPanel(width int) string {
	total := len(m.rows)
	maxRows := clampInt(m.height-12, 4, 20)
	start, end := listWindow(total, m.cursor, maxRows)

	lines := make([]string, 0, maxRows+2)
	if total == 0 {
		if m.filterApplied != "" {
			lines = append(lines, browseMutedStyle.Render("No videos match the filter."))
		} else {
			lines = append(lines, browseMutedStyle.Render("Catalogue is empty."))
		}
	}
	if start > 0 {
		lines = append(lines, browseMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		row := m.rows[i]
		creator := m.cat.ContentResources[row.creatorIdx]
		video := creator.ContentCollection[row.videoIdx]
		line := fmt.Sprintf("[%s] %s  %s", videoGlyph(video), video.VideoID, video.VideoTitle)
		line = truncateRunes(line, maxInt(width-6, 10))
		if i == m.cursor {
			line = browseSelStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < total {
		lines = append(lines, browseMutedStyle.Render("..."))
	}
	return browsePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// videoGlyph is the one-character ledger summary shown in the list: P for a
// primary fetch, F for a fallback fetch, x for known-disabled captions
// without a fallback transcript yet, blank for untouched.
func videoGlyph(v model.Video) string {
	switch {
	case v.FetchedPrimary:
		return "P"
	case v.FetchedSecondary:
		return "F"
	case v.CaptionsAvailable == model.CaptionsDisabled:
		return "x"
	default:
		return " "
	}
}

func (m browseModel) renderDetailsPanel(width int) string {
	lines := []string{}
	video := m.selectedVideo()
	creator := m.selectedCreator()
	if video == nil || creator == nil {
		lines = append(lines, "No video selected")
		lines = append(lines, "")
		lines = append(lines, "Add creators to the catalogue and reload with r.")
	} else {
		lines = append(lines, "Video Details")
		lines = append(lines, "")
		lines = append(lines, kv("creator", creator.ContentCreator))
		lines = append(lines, kv("video_id", video.VideoID))
		lines = append(lines, kv("title", video.VideoTitle))
		lines = append(lines, kv("published", video.PublishedTime))
		lines = append(lines, kv("captions", video.CaptionsAvailable.String()))
		lines = append(lines, kv("fetched_primary", yesNo(video.FetchedPrimary)))
		lines = append(lines, kv("fetched_secondary", yesNo(video.FetchedSecondary)))
		filename, err := naming.Filename(video.PublishedTime, creator.ContentCreator, video.VideoID)
		if err != nil {
			lines = append(lines, kv("artifact", "unparseable published date"))
		} else {
			lines = append(lines, kv("artifact", filename))
			lines = append(lines, kv("on_disk", yesNo(regularFileExists(filepath.Join(m.outputDir, filename)))))
		}
	}

	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return browsePanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m browseModel) viewClearConfirm() string {
	video := m.selectedVideo()
	name := ""
	if video != nil {
		name = video.VideoID
	}
	body := browsePanelStyle.Width(clampInt(m.width-4, 30, 70)).Render(
		"Clear all ledger flags for " + name + "?\n\n" +
			"The transcript file on disk is kept; the next run refetches it.\n\n" +
			"y: clear | n/esc: cancel")
	return browseTitleStyle.Render("yt-transcript-fetcher browse") + "\n" + body
}

func (m browseModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		msg = "Tip: space cycles the captions flag; c clears a video for refetching."
	}
	style := browseMutedStyle
	if strings.HasPrefix(strings.ToLower(msg), "error:") {
		style = browseErrorStyle
	} else if strings.HasPrefix(strings.ToLower(msg), "updated") || strings.HasPrefix(strings.ToLower(msg), "cleared") {
		style = browseOKStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...)
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
