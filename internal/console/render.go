package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/EO-DataHub/eodhp-user-admin/internal/view"
	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// RenderPage writes the visible page of s as a table followed by the
// "Showing X-Y of N users" footer.
func RenderPage(w io.Writer, s view.Snapshot) {
	switch s.Phase {
	case view.PhaseLoading:
		fmt.Fprintln(w, "Loading users...")
		return
	case view.PhaseErrored:
		fmt.Fprintf(w, "Failed to load users: %v\n", s.Err)
		return
	}

	if len(s.Page.Items) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, selectAllMark(s)+"\tID\tNAME\tEMAIL\tROLE\tDEPARTMENT\tSTATUS")
	for _, u := range s.Page.Items {
		mark := "[ ]"
		if s.IsSelected(u.ID) {
			mark = "[x]"
		}
		status := string(u.Status)
		if s.IsToggling(u.ID) {
			status += " (updating)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			mark, u.ID, u.Name, u.Email, orDash(u.PrimaryRole()), orDash(u.Department()), status)
	}
	tw.Flush()

	fmt.Fprintf(w, "Showing %d-%d of %d users (page %d of %d)", s.Page.Start, s.Page.End, s.Page.Total,
		s.Page.Index, s.Page.TotalPages)
	if n := len(s.Selected); n > 0 {
		fmt.Fprintf(w, ", %d selected", n)
	}
	fmt.Fprintln(w)
}

// RenderUser writes the fields of a single user.
func RenderUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Status:\t%s\n", u.Status)
	fmt.Fprintf(tw, "Role:\t%s\n", orDash(u.PrimaryRole()))
	fmt.Fprintf(tw, "Department:\t%s\n", orDash(u.Department()))
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

// RenderList writes one value per line, or none when values is empty.
func RenderList(w io.Writer, values []string) {
	if len(values) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
}

func selectAllMark(s view.Snapshot) string {
	switch {
	case s.AllVisibleSelected:
		return "[x]"
	case s.SomeVisibleSelected:
		return "[-]"
	}
	return "[ ]"
}

func orDash(v string, ok bool) string {
	if !ok {
		return "-"
	}
	return v
}
