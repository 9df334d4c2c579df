// Package view is the admin view over a remote user collection: it owns
// filter criteria, pagination, selection and the edit draft, and reconciles
// local state with the remote API.
package view

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/EO-DataHub/eodhp-user-admin/api/services"
	"github.com/EO-DataHub/eodhp-user-admin/internal/events"
	"github.com/EO-DataHub/eodhp-user-admin/internal/filter"
	"github.com/EO-DataHub/eodhp-user-admin/internal/pagination"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/rs/zerolog"
)

var (
	ErrConfirmationDeclined = errors.New("confirmation declined")
	ErrNotReady             = errors.New("users are not loaded")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotEditing           = errors.New("no user is being edited")
	ErrToggleInFlight       = errors.New("status change already in progress")
	ErrNothingSelected      = errors.New("no users selected")
)

// Prompts shown before destructive operations.
const (
	DeletePrompt     = "Are you sure you want to delete this user?"
	BulkDeletePrompt = "Are you sure you want to delete %d users?"
)

// Confirmer asks the operator to confirm a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AutoConfirm confirms everything.
var AutoConfirm = ConfirmFunc(func(string) bool { return true })

// Snapshot is a consistent, caller-owned copy of what the view shows.
type Snapshot struct {
	Phase    Phase
	Err      error
	Criteria filter.Criteria
	// Total is the size of the loaded collection before filtering.
	Total               int
	Filtered            []models.User
	Page                pagination.Page[models.User]
	Selected            []int
	AllVisibleSelected  bool
	SomeVisibleSelected bool
	Editing             *models.User
	Toggling            []int
}

// IsSelected reports whether id is in the selection.
func (s Snapshot) IsSelected(id int) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// IsToggling reports whether a status change for id is in flight.
func (s Snapshot) IsToggling(id int) bool {
	for _, t := range s.Toggling {
		if t == id {
			return true
		}
	}
	return false
}

// View is safe for concurrent use. Remote calls are made without holding
// the state lock.
type View struct {
	api      services.UserAPI
	notifier events.Notifier
	log      *zerolog.Logger

	mu    sync.Mutex
	state State
}

// New creates a view over api. A nil notifier discards events and a nil
// logger discards logs.
func New(api services.UserAPI, pageSize int, notifier events.Notifier, log *zerolog.Logger) *View {
	if notifier == nil {
		notifier = events.Discard{}
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &View{
		api:      api,
		notifier: notifier,
		log:      log,
		state:    NewState(pageSize),
	}
}

func (v *View) dispatch(ev Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = Reduce(v.state, ev)
}

// State returns a copy of the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Clone()
}

// Load fetches the user collection. On failure the collection is left
// empty and the view is Errored.
func (v *View) Load(ctx context.Context) error {
	v.dispatch(LoadStarted{})

	users, err := v.api.ListUsers(ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("Failed to load users")
		v.dispatch(LoadFailed{Err: err})
		return err
	}

	v.dispatch(LoadSucceeded{Users: users})
	v.log.Debug().Int("count", len(users)).Msg("Users loaded")
	return nil
}

// Reload discards the collection and fetches it again.
func (v *View) Reload(ctx context.Context) error {
	return v.Load(ctx)
}

// Snapshot returns what the view currently shows.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	s := v.state.Clone()
	v.mu.Unlock()

	filtered := s.Filtered()
	for i := range filtered {
		filtered[i] = filtered[i].Clone()
	}
	page := pagination.Paginate(filtered, s.PageSize, s.PageIndex)

	visible := ids(page.Items)
	n := s.Selection.CountOf(visible)

	toggling := make([]int, 0, len(s.Toggling))
	for id := range s.Toggling {
		toggling = append(toggling, id)
	}
	sort.Ints(toggling)

	return Snapshot{
		Phase:               s.Phase,
		Err:                 s.Err,
		Criteria:            s.Criteria,
		Total:               len(s.Users),
		Filtered:            filtered,
		Page:                page,
		Selected:            s.Selection.IDs(),
		AllVisibleSelected:  len(visible) > 0 && n == len(visible),
		SomeVisibleSelected: n > 0 && n < len(visible),
		Editing:             s.Editing,
		Toggling:            toggling,
	}
}

// SetCriteria replaces the filter criteria.
func (v *View) SetCriteria(c filter.Criteria) {
	v.dispatch(CriteriaChanged{Criteria: c})
}

// UpdateCriteria applies fn to a copy of the current criteria and sets the
// result.
func (v *View) UpdateCriteria(fn func(c *filter.Criteria)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := v.state.Criteria
	fn(&c)
	v.state = Reduce(v.state, CriteriaChanged{Criteria: c})
}

func (v *View) NextPage() { v.dispatch(NextPage{}) }
func (v *View) PreviousPage() { v.dispatch(PreviousPage{}) }
func (v *View) GoToPage(index int) { v.dispatch(PageRequested{Index: index}) }
func (v *View) ClearSelection() { v.dispatch(SelectionCleared{}) }
func (v *View) CancelEdit() { v.dispatch(EditClosed{}) }
func (v *View) Roles() []string { return filter.DistinctRoles(v.State().Users) }
func (v *View) Departments() []string {
	return filter.DistinctDepartments(v.State().Users)
}

// User returns the loaded record with the given id.
func (v *View) User(id int) (models.User, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i, ok := v.state.find(id)
	if !ok {
		return models.User{}, false
	}
	return v.state.Users[i].Clone(), true
}

// ToggleSelection flips the selection of a user in the filtered listing.
func (v *View) ToggleSelection(id int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.state.Loaded() {
		return ErrNotReady
	}
	if !containsID(v.state.Filtered(), id) {
		return fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	v.state = Reduce(v.state, SelectionToggled{ID: id})
	return nil
}

// SelectAllVisible selects or deselects every row of the current page.
func (v *View) SelectAllVisible(checked bool) {
	v.dispatch(VisibleSelectionSet{Checked: checked})
}

// BeginEdit opens the edit modal on a copy of the user.
func (v *View) BeginEdit(id int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.state.Loaded() {
		return ErrNotReady
	}
	if _, ok := v.state.find(id); !ok {
		return fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	v.state = Reduce(v.state, EditStarted{ID: id})
	return nil
}

// EditDraft applies fn to the draft in the edit modal.
func (v *View) EditDraft(fn func(u *models.User)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.Editing == nil {
		return ErrNotEditing
	}
	draft := v.state.Editing.Clone()
	fn(&draft)
	draft.ID = v.state.Editing.ID
	v.state = Reduce(v.state, DraftChanged{User: draft})
	return nil
}

// SaveEdit sends the draft to the API. The modal closes whatever the
// outcome; the loaded record is replaced only when the API accepts it.
func (v *View) SaveEdit(ctx context.Context) (models.User, error) {
	v.mu.Lock()
	if v.state.Editing == nil {
		v.mu.Unlock()
		return models.User{}, ErrNotEditing
	}
	draft := v.state.Editing.Clone()
	v.state = Reduce(v.state, EditClosed{})
	v.mu.Unlock()

	updated, err := v.api.UpdateUser(ctx, draft)
	if err != nil {
		v.log.Error().Err(err).Int("user_id", draft.ID).Msg("Failed to update user")
		return models.User{}, err
	}

	v.dispatch(UserUpdated{User: updated})
	v.notify(events.NewUserEvent(events.ActionUpdated, updated.ID, updated.Status))
	return updated, nil
}

// ToggleStatus flips the status of a user and returns the new status.
// Toggles on different users run independently.
func (v *View) ToggleStatus(ctx context.Context, id int) (models.Status, error) {
	v.mu.Lock()
	if !v.state.Loaded() {
		v.mu.Unlock()
		return "", ErrNotReady
	}
	i, ok := v.state.find(id)
	if !ok {
		v.mu.Unlock()
		return "", fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	if _, busy := v.state.Toggling[id]; busy {
		v.mu.Unlock()
		return "", ErrToggleInFlight
	}
	status := v.state.Users[i].Status.Toggle()
	v.state = Reduce(v.state, StatusToggleStarted{ID: id})
	v.mu.Unlock()

	err := v.api.SetStatus(ctx, id, status)
	v.dispatch(StatusToggleFinished{ID: id, Status: status, Err: err})
	if err != nil {
		v.log.Error().Err(err).Int("user_id", id).Msg("Failed to update user status")
		return "", err
	}

	v.notify(events.NewUserEvent(events.ActionStatusChanged, id, status))
	return status, nil
}

// DeleteUser deletes one user after confirmation. A nil confirmer declines.
func (v *View) DeleteUser(ctx context.Context, id int, confirm Confirmer) error {
	v.mu.Lock()
	loaded := v.state.Loaded()
	_, ok := v.state.find(id)
	v.mu.Unlock()

	if !loaded {
		return ErrNotReady
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return ErrConfirmationDeclined
	}

	if err := v.api.DeleteUser(ctx, id); err != nil {
		v.log.Error().Err(err).Int("user_id", id).Msg("Failed to delete user")
		return err
	}

	v.dispatch(UsersDeleted{IDs: []int{id}})
	v.notify(events.NewUserEvent(events.ActionDeleted, id, ""))
	return nil
}

// BulkDelete deletes every selected user after one confirmation, issuing
// the deletes concurrently. Users whose delete failed stay loaded and
// selected; their errors are joined into the returned error. It returns
// the number of users deleted.
func (v *View) BulkDelete(ctx context.Context, confirm Confirmer) (int, error) {
	v.mu.Lock()
	loaded := v.state.Loaded()
	selected := v.state.Selection.IDs()
	v.mu.Unlock()

	if !loaded {
		return 0, ErrNotReady
	}
	if len(selected) == 0 {
		return 0, ErrNothingSelected
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf(BulkDeletePrompt, len(selected))) {
		return 0, ErrConfirmationDeclined
	}

	errs := make([]error, len(selected))
	var wg sync.WaitGroup
	for i, id := range selected {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			errs[i] = v.api.DeleteUser(ctx, id)
		}(i, id)
	}
	wg.Wait()

	deleted := make([]int, 0, len(selected))
	for i, id := range selected {
		if errs[i] != nil {
			v.log.Error().Err(errs[i]).Int("user_id", id).Msg("Failed to delete user")
			continue
		}
		deleted = append(deleted, id)
	}

	v.dispatch(UsersDeleted{IDs: deleted})
	for _, id := range deleted {
		v.notify(events.NewUserEvent(events.ActionDeleted, id, ""))
	}

	return len(deleted), errors.Join(errs...)
}

func (v *View) notify(event events.UserEvent) {
	if err := v.notifier.Notify(event); err != nil {
		v.log.Warn().Err(err).Str("action", string(event.Action)).Int("user_id", event.UserID).
			Msg("Failed to publish user event")
	}
}

func containsID(users []models.User, id int) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
