package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/EO-DataHub/eodhp-user-admin/internal/console"
	"github.com/EO-DataHub/eodhp-user-admin/internal/filter"
	"github.com/EO-DataHub/eodhp-user-admin/internal/view"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/spf13/cobra"
)

var (
	listCriteria filter.Criteria
	listStatus   string
	listPage     int
	listPageSize int

	updateName   string
	updateEmail  string
	updateStatus string

	deleteYes bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List and manage users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show one page of users, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := filter.ParseStatusFilter(listStatus)
		if err != nil {
			return err
		}
		criteria := listCriteria
		criteria.Status = status

		v, err := loadView(cmd.Context(), listPageSize)
		if err != nil {
			return err
		}
		v.SetCriteria(criteria)
		v.GoToPage(listPage)

		console.RenderPage(cmd.OutOrStdout(), v.Snapshot())
		return nil
	},
}

var usersRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the primary roles of the loaded users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}
		console.RenderList(cmd.OutOrStdout(), v.Roles())
		return nil
	},
}

var usersDepartmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List the departments of the loaded users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}
		console.RenderList(cmd.OutOrStdout(), v.Departments())
		return nil
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}
		u, ok := v.User(id)
		if !ok {
			return fmt.Errorf("%w: %d", view.ErrUserNotFound, id)
		}
		console.RenderUser(cmd.OutOrStdout(), u)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the name, email or status of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var status models.Status
		if flags.Changed("status") {
			if status, err = models.ParseStatus(updateStatus); err != nil {
				return err
			}
		}

		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}
		if err := v.BeginEdit(id); err != nil {
			return err
		}
		err = v.EditDraft(func(u *models.User) {
			if flags.Changed("name") {
				u.Name = updateName
			}
			if flags.Changed("email") {
				u.Email = updateEmail
			}
			if status != "" {
				u.Status = status
			}
		})
		if err != nil {
			return err
		}

		u, err := v.SaveEdit(cmd.Context())
		if err != nil {
			return err
		}
		console.RenderUser(cmd.OutOrStdout(), u)
		return nil
	},
}

var usersToggleStatusCmd = &cobra.Command{
	Use:   "toggle-status <id>",
	Short: "Switch a user between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}
		status, err := v.ToggleStatus(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %s.\n", id, status)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, len(args))
		for i, a := range args {
			id, err := parseUserID(a)
			if err != nil {
				return err
			}
			ids[i] = id
		}

		var confirm view.Confirmer = view.AutoConfirm
		if !deleteYes {
			confirm = &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
		}

		v, err := loadView(cmd.Context(), 0)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(ids) == 1 {
			err := v.DeleteUser(cmd.Context(), ids[0], confirm)
			if errors.Is(err, view.ErrConfirmationDeclined) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "User %d deleted.\n", ids[0])
			return nil
		}

		// Selection is limited to the filtered listing, which is every user here.
		for _, id := range ids {
			if v.Snapshot().IsSelected(id) {
				continue
			}
			if err := v.ToggleSelection(id); err != nil {
				return err
			}
		}
		n, err := v.BulkDelete(cmd.Context(), confirm)
		if errors.Is(err, view.ErrConfirmationDeclined) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		fmt.Fprintf(out, "%d users deleted.\n", n)
		return err
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersRolesCmd, usersDepartmentsCmd, usersShowCmd,
		usersUpdateCmd, usersToggleStatusCmd, usersDeleteCmd)

	usersListCmd.Flags().StringVarP(&listCriteria.Query, "query", "q", "", "search name, email, role and department")
	usersListCmd.Flags().StringVar(&listStatus, "status", "all", "filter by status: all, active or inactive")
	usersListCmd.Flags().StringVar(&listCriteria.Role, "role", "", "filter by primary role")
	usersListCmd.Flags().StringVar(&listCriteria.Department, "department", "", "filter by department")
	usersListCmd.Flags().IntVar(&listPage, "page", 1, "page to show")
	usersListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "users per page (defaults to view.pageSize)")

	usersUpdateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	usersUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "new email")
	usersUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "new status: active or inactive")

	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

// loadView sets up logging and config and loads the user collection.
func loadView(ctx context.Context, pageSize int) (*view.View, error) {
	commonSetUp()

	v, notifier := newView(appCfg, pageSize)
	cobra.OnFinalize(notifier.Close)

	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func parseUserID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

// promptConfirmer asks a yes/no question on the command's input.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
