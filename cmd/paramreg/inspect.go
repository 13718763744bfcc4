package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	charmlog "charm.land/log/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/doriantaylor/go-params-registry/paramlog"
	"github.com/doriantaylor/go-params-registry/registry"
)

func newInspectCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Interactively type query strings against a schema and watch the result",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInspect(cfg)
		},
	}
}

func runInspect(cfg *Config) error {
	reg, _, err := loadRegistry(cfg.Schema)
	if err != nil {
		return err
	}

	pub := paramlog.NewPublisher(paramlog.WithBufferSize(128))
	defer pub.Close()

	m := newInspectModel(reg, pub)

	sink := charmlog.New(pub)
	sink.SetReportTimestamp(false)
	sink.Info("schema loaded", "templates", len(reg.Sequence()))

	p := tea.NewProgram(m)

	_, err = p.Run()

	return err
}

var (
	rankStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	changedKey  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("222"))
	inputPrompt = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// inspectModel is a bubbletea model that lets the operator type a raw query
// string, runs it through the loaded registry's Process (first submission)
// or the running Instance's Clone (every submission after), and renders the
// rank order, the resulting Instance content, what changed since the last
// submission, and the canonical as_string() output, alongside the most
// recent log lines published by the TUI's own log sink.
type inspectModel struct {
	reg      *registry.Registry
	ranks    [][]string
	sub      *paramlog.Subscription
	logLines []string
	width    int
	height   int
	cursor   int

	input  string
	inst   *registry.Instance
	diff   map[string]registry.Change
	status string
	isErr  bool
}

func newInspectModel(reg *registry.Registry, pub *paramlog.Publisher) *inspectModel {
	return &inspectModel{
		reg:    reg,
		ranks:  reg.Ranks(),
		sub:    pub.Subscribe(),
		status: "type name=value pairs and press enter to process",
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return m.waitForLog()
}

type logLineMsg string

func (m *inspectModel) waitForLog() tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.sub.C()
		if !ok {
			return nil
		}

		return logLineMsg(line)
	}
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case logLineMsg:
		m.logLines = append(m.logLines, string(msg))
		if len(m.logLines) > 8 {
			m.logLines = m.logLines[len(m.logLines)-8:]
		}

		return m, m.waitForLog()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *inspectModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "ctrl+c":
		m.sub.Close()

		return m, tea.Quit
	case "esc":
		if m.input != "" {
			m.input = ""

			return m, nil
		}

		m.sub.Close()

		return m, tea.Quit
	case "enter":
		m.submit()

		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

		return m, nil
	case "down":
		if m.cursor < len(m.ranks)-1 {
			m.cursor++
		}

		return m, nil
	default:
		if len(s) == 1 {
			m.input += s
		}

		return m, nil
	}
}

// submit parses m.input as a query string and runs it through the
// registry's Process if no Instance exists yet, or through the existing
// Instance's Clone (which internally re-runs Set) otherwise, recording the
// resulting Diff against the previous state.
func (m *inspectModel) submit() {
	if strings.TrimSpace(m.input) == "" {
		return
	}

	values, err := url.ParseQuery(m.input)
	if err != nil {
		m.status = fmt.Sprintf("parse error: %v", err)
		m.isErr = true

		return
	}

	raw := toRawValues(values)

	if m.inst == nil {
		inst, err := m.reg.Process(raw)
		if err != nil {
			m.status = err.Error()
			m.isErr = true

			return
		}

		m.inst = inst
		m.diff = nil
		m.status = "processed"
		m.isErr = false
	} else {
		next, err := m.inst.Clone(raw)
		if err != nil {
			m.status = err.Error()
			m.isErr = true

			return
		}

		m.diff = m.inst.Diff(next)
		m.inst = next
		m.status = "updated"
		m.isErr = false
	}

	m.input = ""
}

func (m *inspectModel) View() tea.View {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Bold(true).Render("paramreg inspect"))

	for i, rank := range m.ranks {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}

		fmt.Fprintf(&b, "%s%s %s\n", marker, rankStyle.Render(fmt.Sprintf("rank %d:", i)),
			nameStyle.Render(strings.Join(rank, ", ")))
	}

	fmt.Fprintf(&b, "\n%s %s\n", inputPrompt.Render(">"), m.input)

	if m.isErr {
		fmt.Fprintf(&b, "%s\n", errStyle.Render(m.status))
	} else {
		fmt.Fprintf(&b, "%s\n", okStyle.Render(m.status))
	}

	if m.inst != nil {
		b.WriteString("\ncontent:\n")

		for _, k := range sortedKeys(m.inst.Content()) {
			v, _ := m.inst.Get(k)

			label := nameStyle.Render(k)
			if m.diff != nil {
				if _, changed := m.diff[k]; changed {
					label = changedKey.Render(k)
				}
			}

			fmt.Fprintf(&b, "  %s = %v\n", label, v)
		}

		fmt.Fprintf(&b, "\nas_string: %s\n", m.inst.AsString())
	}

	if len(m.logLines) > 0 {
		b.WriteString("\n")

		for _, line := range m.logLines {
			fmt.Fprintf(&b, "%s\n", logStyle.Render(line))
		}
	}

	b.WriteString("\n(type name=value pairs, enter to process, up/down to browse ranks, esc/ctrl+c to quit)\n")

	content := b.String()
	if m.width > 0 {
		content = lipgloss.NewStyle().MaxWidth(m.width).Render(content)
	}

	v := tea.NewView(content)
	v.AltScreen = true

	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
