package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hoh/nix-manipulator/pkg/edit"
	"github.com/hoh/nix-manipulator/pkg/parser"
	"github.com/hoh/nix-manipulator/pkg/syntax"
)

// shellHelp lists the REPL commands.
const shellHelp = `commands:
  load FILE        parse FILE into the current document
  set NPATH VALUE  assign VALUE (a Nix expression) at NPATH
  rm NPATH         remove the binding at NPATH
  rebuild          print the rebuilt document
  test             round-trip check against the loaded source
  help             show this help
  quit             leave the shell`

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true) //nolint:gochecknoglobals // shared styles
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            //nolint:gochecknoglobals // shared styles
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            //nolint:gochecknoglobals // shared styles
)

func shellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell over a live document",
		Long: `Open an interactive shell holding a parsed document. With -f FILE the
document is pre-loaded; otherwise start empty and use load.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			model, err := newShellModel(opts.file)
			if err != nil {
				return err
			}

			program := tea.NewProgram(model)

			_, err = program.Run()

			return err
		},
	}
}

// shellModel is the bubbletea model of the REPL.
type shellModel struct {
	input      textinput.Model
	history    []string
	doc        *syntax.SourceFile
	sourceText string
	fileName   string
}

func newShellModel(file string) (*shellModel, error) {
	input := textinput.New()
	input.Prompt = promptStyle.Render("nix> ")
	input.Focus()

	model := &shellModel{
		input:   input,
		history: []string{"nix-manipulator shell - type help for commands"},
	}

	if file != "" {
		if err := model.load(file); err != nil {
			return nil, err
		}
	}

	return model, nil
}

func (m *shellModel) load(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := parser.Parse(content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	m.doc = doc
	m.sourceText = string(content)
	m.fileName = path

	return nil
}

// Init implements tea.Model.
func (m *shellModel) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")

		if line == "" {
			return m, nil
		}

		m.history = append(m.history, promptStyle.Render("nix> ")+line)

		if line == "quit" || line == "exit" {
			return m, tea.Quit
		}

		m.history = append(m.history, m.execute(line))

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m *shellModel) View() string {
	return strings.Join(m.history, "\n") + "\n" + m.input.View() + "\n"
}

// execute runs one REPL command and returns its output.
func (m *shellModel) execute(line string) string {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "help":
		return shellHelp
	case "load":
		if rest == "" {
			return errStyle.Render("usage: load FILE")
		}

		if err := m.load(rest); err != nil {
			return errStyle.Render(err.Error())
		}

		return okStyle.Render("loaded " + rest)
	case "rebuild":
		if m.doc == nil {
			return errStyle.Render("no document loaded")
		}

		return m.doc.Rebuild()
	case "test":
		if m.doc == nil {
			return errStyle.Render("no document loaded")
		}

		if m.doc.Rebuild() == m.sourceText {
			return okStyle.Render("OK")
		}

		return errStyle.Render("Fail")
	case "set":
		npath, value, found := strings.Cut(rest, " ")
		if !found || m.doc == nil {
			return errStyle.Render("usage: set NPATH VALUE (load a document first)")
		}

		rebuilt, err := edit.SetValue(m.doc, npath, strings.TrimSpace(value))
		if err != nil {
			return errStyle.Render(err.Error())
		}

		return rebuilt
	case "rm":
		if rest == "" || m.doc == nil {
			return errStyle.Render("usage: rm NPATH (load a document first)")
		}

		rebuilt, err := edit.RemoveValue(m.doc, rest)
		if err != nil {
			return errStyle.Render(err.Error())
		}

		return rebuilt
	default:
		return errStyle.Render(fmt.Sprintf("unknown command %q - type help", name))
	}
}
