package view

import (
	"github.com/EO-DataHub/eodhp-user-admin/internal/filter"
	"github.com/EO-DataHub/eodhp-user-admin/internal/pagination"
	"github.com/EO-DataHub/eodhp-user-admin/internal/selection"
	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// Phase is the lifecycle stage of the view.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseEditing
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseEditing:
		return "editing"
	case PhaseErrored:
		return "errored"
	}
	return "unknown"
}

// State is everything the admin view holds. It is only changed through
// Reduce, which never modifies its input.
type State struct {
	Phase     Phase
	Err       error
	Users     []models.User
	Criteria  filter.Criteria
	Selection *selection.Tracker
	PageIndex int
	PageSize  int
	// Editing is the draft of the record open in the edit modal.
	Editing  *models.User
	Toggling map[int]struct{}
}

// NewState returns the initial state of a view showing pageSize rows.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return State{
		Phase:     PhaseLoading,
		Selection: selection.New(),
		PageIndex: 1,
		PageSize:  pageSize,
		Toggling:  map[int]struct{}{},
	}
}

// Clone returns a copy that shares nothing mutable with s. Group slices of
// the users are shared; they are never modified in place.
func (s State) Clone() State {
	c := s
	if s.Users != nil {
		c.Users = append([]models.User(nil), s.Users...)
	}
	if s.Selection != nil {
		c.Selection = s.Selection.Clone()
	} else {
		c.Selection = selection.New()
	}
	if s.Editing != nil {
		draft := s.Editing.Clone()
		c.Editing = &draft
	}
	c.Toggling = make(map[int]struct{}, len(s.Toggling))
	for id := range s.Toggling {
		c.Toggling[id] = struct{}{}
	}
	return c
}

// Loaded reports whether a collection is available for interaction.
func (s State) Loaded() bool {
	return s.Phase == PhaseReady || s.Phase == PhaseEditing
}

// Filtered returns the users that pass the current criteria.
func (s State) Filtered() []models.User {
	return filter.Filter(s.Users, s.Criteria)
}

// Page returns the visible page of the filtered listing.
func (s State) Page() pagination.Page[models.User] {
	return pagination.Paginate(s.Filtered(), s.PageSize, s.PageIndex)
}

func (s State) find(id int) (int, bool) {
	for i, u := range s.Users {
		if u.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

type (
	LoadStarted   struct{}
	LoadSucceeded struct{ Users []models.User }
	LoadFailed    struct{ Err error }

	CriteriaChanged struct{ Criteria filter.Criteria }
	PageRequested   struct{ Index int }
	NextPage        struct{}
	PreviousPage    struct{}

	SelectionToggled    struct{ ID int }
	VisibleSelectionSet struct{ Checked bool }
	SelectionCleared    struct{}

	EditStarted  struct{ ID int }
	DraftChanged struct{ User models.User }
	EditClosed   struct{}
	UserUpdated  struct{ User models.User }

	StatusToggleStarted  struct{ ID int }
	StatusToggleFinished struct {
		ID     int
		Status models.Status
		Err    error
	}

	UsersDeleted struct{ IDs []int }
)

func (LoadStarted) isEvent() {}
func (LoadSucceeded) isEvent() {}
func (LoadFailed) isEvent() {}
func (CriteriaChanged) isEvent() {}
func (PageRequested) isEvent() {}
func (NextPage) isEvent() {}
func (PreviousPage) isEvent() {}
func (SelectionToggled) isEvent() {}
func (VisibleSelectionSet) isEvent() {}
func (SelectionCleared) isEvent() {}
func (EditStarted) isEvent() {}
func (DraftChanged) isEvent() {}
func (EditClosed) isEvent() {}
func (UserUpdated) isEvent() {}
func (StatusToggleStarted) isEvent() {}
func (StatusToggleFinished) isEvent() {}
func (UsersDeleted) isEvent() {}

// Reduce returns the state that follows s after ev.
func Reduce(s State, ev Event) State {
	next := s.Clone()

	switch e := ev.(type) {
	case LoadStarted:
		next.Phase = PhaseLoading
		next.Err = nil
		next.Editing = nil

	case LoadSucceeded:
		next.Phase = PhaseReady
		next.Err = nil
		next.Users = append([]models.User(nil), e.Users...)
		pruneToggling(&next)
		reconcile(&next)

	case LoadFailed:
		next.Phase = PhaseErrored
		next.Err = e.Err
		next.Users = nil
		next.Editing = nil
		reconcile(&next)

	case CriteriaChanged:
		next.Criteria = e.Criteria
		reconcile(&next)

	case PageRequested:
		next.PageIndex = pagination.Clamp(e.Index, totalPages(next))

	case NextPage:
		next.PageIndex = pagination.Next(next.PageIndex, totalPages(next))

	case PreviousPage:
		next.PageIndex = pagination.Previous(next.PageIndex)

	case SelectionToggled:
		next.Selection.Toggle(e.ID)

	case VisibleSelectionSet:
		next.Selection.SelectAll(ids(next.Page().Items), e.Checked)

	case SelectionCleared:
		next.Selection.Clear()

	case EditStarted:
		if i, ok := next.find(e.ID); ok {
			draft := next.Users[i].Clone()
			next.Editing = &draft
			next.Phase = PhaseEditing
		}

	case DraftChanged:
		if next.Editing != nil && next.Editing.ID == e.User.ID {
			draft := e.User.Clone()
			next.Editing = &draft
		}

	case EditClosed:
		next.Editing = nil
		if next.Phase == PhaseEditing {
			next.Phase = PhaseReady
		}

	case UserUpdated:
		if i, ok := next.find(e.User.ID); ok {
			next.Users[i] = e.User.Clone()
			reconcile(&next)
		}

	case StatusToggleStarted:
		next.Toggling[e.ID] = struct{}{}

	case StatusToggleFinished:
		delete(next.Toggling, e.ID)
		if e.Err == nil {
			if i, ok := next.find(e.ID); ok {
				next.Users[i].Status = e.Status
				reconcile(&next)
			}
		}

	case UsersDeleted:
		removed := make(map[int]struct{}, len(e.IDs))
		for _, id := range e.IDs {
			removed[id] = struct{}{}
		}
		kept := make([]models.User, 0, len(next.Users))
		for _, u := range next.Users {
			if _, ok := removed[u.ID]; !ok {
				kept = append(kept, u)
			}
		}
		next.Users = kept
		if next.Editing != nil {
			if _, ok := removed[next.Editing.ID]; ok {
				next.Editing = nil
				next.Phase = PhaseReady
			}
		}
		reconcile(&next)
	}

	return next
}

// reconcile prunes the selection to the filtered listing and clamps the
// page index after the collection or the criteria change.
func reconcile(s *State) {
	filtered := s.Filtered()
	s.Selection.Prune(ids(filtered))
	s.PageIndex = pagination.Clamp(s.PageIndex, pagination.TotalPages(len(filtered), s.PageSize))
}

// pruneToggling keeps in-flight status changes only for loaded users.
func pruneToggling(s *State) {
	for id := range s.Toggling {
		if _, ok := s.find(id); !ok {
			delete(s.Toggling, id)
		}
	}
}

func totalPages(s State) int {
	return pagination.TotalPages(len(s.Filtered()), s.PageSize)
}

func ids(users []models.User) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
