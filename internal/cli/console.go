package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 80

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 1)

var replyPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("5")).
	Padding(0, 2)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("6"))

var assistantStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("5"))

var promptStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("4"))

var infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

var ruleStyle = lipgloss.NewStyle().Faint(true)

const welcomeMarkdown = `# Donna

Your executive assistant for calendar and email.

**Capabilities:**

- **Calendar**: schedule meetings, check availability, manage events
- **Email**: send mail, create drafts, search the inbox

**Example requests:**

- "Schedule a meeting tomorrow at 2pm with john@example.com"
- "What's on my calendar this week?"
- "Send an email to the team about the project update"
- "Check if I'm free on Friday afternoon"

Type ` + "`help`" + ` for more commands, or ` + "`quit`" + ` to exit.`

const helpMarkdown = `## Commands

| Command | Description |
|---------|-------------|
| help    | Show this help message |
| status  | Show connection status |
| clear   | Clear conversation history |
| quit    | Exit the assistant |

## Example requests

**Calendar**

- "Schedule a meeting with Sarah tomorrow at 3pm"
- "What meetings do I have this week?"
- "Check availability for Friday afternoon"
- "Cancel my 2pm meeting"

**Email**

- "Send John an email about the project deadline"
- "Draft an update email to the team"
- "Search for emails from the client"

**Combined**

- "Schedule a call with Alex and send them a reminder email"`

// Console renders the assistant's terminal output.
type Console struct {
	out      io.Writer
	width    int
	renderer *glamour.TermRenderer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, width: defaultWidth}
}

// markdown renders text for the terminal, falling back to plain
// word-wrapped text when the renderer is unavailable.
func (c *Console) markdown(text string) string {
	if c.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(c.width-4),
		)
		if err != nil {
			return wordwrap.String(text, c.width)
		}
		c.renderer = r
	}
	rendered, err := c.renderer.Render(text)
	if err != nil {
		return wordwrap.String(text, c.width)
	}
	return strings.TrimRight(rendered, "\n")
}

func (c *Console) panel(content string, style lipgloss.Style) {
	fmt.Fprintln(c.out, style.Width(c.width).Render(content))
}

// Welcome prints the greeting panel shown when the REPL starts.
func (c *Console) Welcome() {
	c.panel(c.markdown(welcomeMarkdown), panelStyle)
}

// Help prints the command reference.
func (c *Console) Help() {
	fmt.Fprintln(c.out, c.markdown(helpMarkdown))
}

// Status is the data the status command renders.
type Status struct {
	Provider      string
	Model         string
	UserName      string
	UserEmail     string
	Authenticated bool
	ReviewTimeout time.Duration
}

func (c *Console) Status(s Status) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Status") + "\n\n")
	fmt.Fprintf(&b, "%-17s%s (%s)\n", "LLM provider", s.Provider, s.Model)
	if s.Authenticated {
		fmt.Fprintf(&b, "%-17s%s\n", "Google OAuth", "authenticated")
	} else {
		fmt.Fprintf(&b, "%-17s%s\n", "Google OAuth", "not authenticated (run donna auth)")
	}
	if s.ReviewTimeout > 0 {
		fmt.Fprintf(&b, "%-17s%s\n", "Review timeout", s.ReviewTimeout)
	} else {
		fmt.Fprintf(&b, "%-17s%s\n", "Review timeout", "none (waits for a decision)")
	}
	fmt.Fprintf(&b, "%-17s%s <%s>", "User", s.UserName, s.UserEmail)
	c.panel(b.String(), panelStyle)
}

// TitledPanel prints content under a bold title inside a bordered panel.
func (c *Console) TitledPanel(title, content string) {
	c.panel(titleStyle.Render(title)+"\n\n"+content, panelStyle)
}

// MarkdownPanel renders markdown inside a bordered panel.
func (c *Console) MarkdownPanel(md string) {
	c.panel(c.markdown(md), panelStyle)
}

// Rule prints a faint separator line.
func (c *Console) Rule() {
	fmt.Fprintln(c.out, ruleStyle.Render(strings.Repeat("-", c.width)))
}

// AssistantHeader labels the reply that is about to be produced.
func (c *Console) AssistantHeader() {
	fmt.Fprintln(c.out, assistantStyle.Render("Assistant:"))
}

// AssistantReply renders the model's answer as markdown in a panel.
func (c *Console) AssistantReply(markdown string) {
	c.panel(c.markdown(markdown), replyPanelStyle)
}

// InputPrompt is the styled REPL prompt.
func (c *Console) InputPrompt() string {
	return promptStyle.Render("You:") + " "
}

func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, infoStyle.Render(msg))
}

func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, successStyle.Render(msg))
}

func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, warnStyle.Render(msg))
}

func (c *Console) Error(msg string) {
	fmt.Fprintln(c.out, errorStyle.Render("Error: "+msg))
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}
