// Package console is an interactive shell over the admin view.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/EO-DataHub/eodhp-user-admin/internal/filter"
	"github.com/EO-DataHub/eodhp-user-admin/internal/view"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/chzyer/readline"
)

// Prompt is the console prompt.
const Prompt = "users> "

// ErrExit is returned by ExecuteCommand when the operator asks to leave.
var ErrExit = errors.New("exit requested")

type Console struct {
	View    *view.View
	RL      *readline.Instance
	Out     io.Writer
	Confirm view.Confirmer
}

// NewConsole creates a console reading from rl. Confirmations are asked on
// the same line editor.
func NewConsole(v *view.View, rl *readline.Instance) *Console {
	return &Console{
		View:    v,
		RL:      rl,
		Out:     rl.Stdout(),
		Confirm: &lineConfirmer{rl: rl},
	}
}

// Loop reads and executes commands until exit, EOF or ctx is done.
func (c *Console) Loop(ctx context.Context) error {
	for ctx.Err() == nil {
		err := c.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(c.Out, "Use 'exit' or 'quit' to exit the program.")
		case errors.Is(err, io.EOF), errors.Is(err, ErrExit):
			return nil
		default:
			fmt.Fprintln(c.Out, "Error:", err)
		}
	}
	return nil
}

// Run reads one line and executes it.
func (c *Console) Run(ctx context.Context) error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	return c.ExecuteCommand(ctx, ParseArgs(line))
}

// ParseArgs splits a line on whitespace, keeping double-quoted runs together.
func ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false
	quoted := false

	flush := func() {
		if currentArg.Len() > 0 || quoted {
			args = append(args, currentArg.String())
			currentArg.Reset()
		}
		quoted = false
	}

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case (char == ' ' || char == '\t') && !inQuotes:
			flush()
		default:
			currentArg.WriteRune(char)
		}
	}
	flush()

	return args
}

// ExecuteCommand runs one parsed command line.
func (c *Console) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		c.show()
	case "search":
		query := strings.Join(rest, " ")
		c.View.UpdateCriteria(func(f *filter.Criteria) { f.Query = query })
		c.show()
	case "status":
		return c.handleStatus(rest)
	case "role":
		role := strings.Join(rest, " ")
		c.View.UpdateCriteria(func(f *filter.Criteria) { f.Role = role })
		c.show()
	case "dept":
		dept := strings.Join(rest, " ")
		c.View.UpdateCriteria(func(f *filter.Criteria) { f.Department = dept })
		c.show()
	case "clear-filters":
		c.View.SetCriteria(filter.Criteria{})
		c.show()
	case "next":
		c.View.NextPage()
		c.show()
	case "prev":
		c.View.PreviousPage()
		c.show()
	case "page":
		return c.handlePage(rest)
	case "select":
		return c.handleSelect(rest)
	case "select-page":
		c.View.SelectAllVisible(true)
		c.show()
	case "unselect-page":
		c.View.SelectAllVisible(false)
		c.show()
	case "clear-selection":
		c.View.ClearSelection()
		c.show()
	case "selected":
		c.handleSelected()
	case "show":
		return c.handleShow(rest)
	case "edit":
		return c.handleEdit(rest)
	case "set":
		return c.handleSet(rest)
	case "save":
		return c.handleSave(ctx)
	case "cancel":
		c.View.CancelEdit()
		fmt.Fprintln(c.Out, "Edit cancelled.")
	case "toggle":
		return c.handleToggle(ctx, rest)
	case "delete", "del":
		return c.handleDelete(ctx, rest)
	case "bulk-delete":
		return c.handleBulkDelete(ctx)
	case "roles":
		RenderList(c.Out, c.View.Roles())
	case "depts":
		RenderList(c.Out, c.View.Departments())
	case "reload":
		fmt.Fprintln(c.Out, "Loading users...")
		if err := c.View.Reload(ctx); err != nil {
			return err
		}
		c.show()
	case "help":
		c.printHelp(strings.Join(rest, " "))
	case "exit", "quit":
		fmt.Fprintln(c.Out, "Exiting...")
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func (c *Console) show() {
	RenderPage(c.Out, c.View.Snapshot())
}

func (c *Console) handleStatus(args []string) error {
	status, err := filter.ParseStatusFilter(strings.Join(args, ""))
	if err != nil {
		return err
	}
	c.View.UpdateCriteria(func(f *filter.Criteria) { f.Status = status })
	c.show()
	return nil
}

func (c *Console) handlePage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}
	c.View.GoToPage(n)
	c.show()
	return nil
}

func (c *Console) handleSelect(args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := c.View.ToggleSelection(id); err != nil {
			return err
		}
	}
	c.show()
	return nil
}

func (c *Console) handleSelected() {
	ids := c.View.Snapshot().Selected
	if len(ids) == 0 {
		fmt.Fprintln(c.Out, "No users selected.")
		return
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = strconv.Itoa(id)
	}
	fmt.Fprintf(c.Out, "%d selected: %s\n", len(ids), strings.Join(strs, ", "))
}

func (c *Console) handleShow(args []string) error {
	id, err := singleID(args, "show <id>")
	if err != nil {
		return err
	}
	u, ok := c.View.User(id)
	if !ok {
		return fmt.Errorf("%w: %d", view.ErrUserNotFound, id)
	}
	RenderUser(c.Out, u)
	return nil
}

func (c *Console) handleEdit(args []string) error {
	id, err := singleID(args, "edit <id>")
	if err != nil {
		return err
	}
	if err := c.View.BeginEdit(id); err != nil {
		return err
	}
	c.showDraft()
	fmt.Fprintln(c.Out, "Use 'set <name|email|status> <value>', then 'save' or 'cancel'.")
	return nil
}

func (c *Console) handleSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set <name|email|status> <value>")
	}
	field, value := strings.ToLower(args[0]), strings.Join(args[1:], " ")

	var apply func(u *models.User)
	switch field {
	case "name":
		apply = func(u *models.User) { u.Name = value }
	case "email":
		apply = func(u *models.User) { u.Email = value }
	case "status":
		status, err := models.ParseStatus(value)
		if err != nil {
			return err
		}
		apply = func(u *models.User) { u.Status = status }
	default:
		return fmt.Errorf("unknown field %q: must be name, email or status", args[0])
	}

	if err := c.View.EditDraft(apply); err != nil {
		return err
	}
	c.showDraft()
	return nil
}

func (c *Console) handleSave(ctx context.Context) error {
	u, err := c.View.SaveEdit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "User %d saved.\n", u.ID)
	return nil
}

func (c *Console) handleToggle(ctx context.Context, args []string) error {
	id, err := singleID(args, "toggle <id>")
	if err != nil {
		return err
	}
	status, err := c.View.ToggleStatus(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "User %d is now %s.\n", id, status)
	return nil
}

func (c *Console) handleDelete(ctx context.Context, args []string) error {
	id, err := singleID(args, "delete <id>")
	if err != nil {
		return err
	}
	err = c.View.DeleteUser(ctx, id, c.Confirm)
	if errors.Is(err, view.ErrConfirmationDeclined) {
		fmt.Fprintln(c.Out, "Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "User %d deleted.\n", id)
	return nil
}

func (c *Console) handleBulkDelete(ctx context.Context) error {
	n, err := c.View.BulkDelete(ctx, c.Confirm)
	if errors.Is(err, view.ErrConfirmationDeclined) {
		fmt.Fprintln(c.Out, "Cancelled.")
		return nil
	}
	if n > 0 {
		fmt.Fprintf(c.Out, "%d users deleted.\n", n)
	}
	return err
}

func (c *Console) showDraft() {
	if draft := c.View.Snapshot().Editing; draft != nil {
		RenderUser(c.Out, *draft)
	}
}

func (c *Console) printHelp(command string) {
	if command == "" {
		fmt.Fprintln(c.Out, "Available commands:")
		names := make([]string, 0, len(commandHelp))
		for name := range commandHelp {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(c.Out, "  %s\n", name)
		}
		fmt.Fprintln(c.Out, "\nUse 'help <command>' for more information about a specific command.")
	} else if help, ok := commandHelp[command]; ok {
		fmt.Fprintln(c.Out, help)
	} else {
		fmt.Fprintf(c.Out, "Unknown command: %s\n", command)
	}
}

func singleID(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	ids, err := parseIDs(args)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

func parseIDs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one user id is required")
	}
	ids := make([]int, len(args))
	for i, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", a)
		}
		ids[i] = id
	}
	return ids, nil
}

// lineConfirmer asks a yes/no question on the console's line editor.
type lineConfirmer struct {
	rl *readline.Instance
}

func (l *lineConfirmer) Confirm(prompt string) bool {
	l.rl.SetPrompt(prompt + " [y/N] ")
	defer l.rl.SetPrompt(Prompt)

	line, err := l.rl.Readline()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
