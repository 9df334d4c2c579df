package db

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// SeedOptions controls the synthetic data loaded into a UserDB.
type SeedOptions struct {
	Users  int
	Groups int
	// Seed makes the generated data reproducible.
	Seed int64
	// Now is the creation time of the newest user.
	Now time.Time
}

var (
	groupRoles = []string{"admin", "manager", "member"}
	groupWords = []string{"Alpha", "Bravo", "Cloud", "Data", "Earth", "Field",
		"Orbit", "Signal", "Vector", "Zenith", "Harbor", "Summit"}
	firstNames = []string{"Ada", "Ben", "Cara", "Dev", "Elena", "Femi", "Grace",
		"Hugo", "Iris", "Jon", "Kemi", "Liam", "Maya", "Noah", "Omar", "Priya"}
	lastNames = []string{"Archer", "Bell", "Chen", "Diaz", "Evans", "Fox",
		"Gupta", "Hart", "Ito", "Jones", "Khan", "Lopez", "Moore", "Novak"}
)

// Seed inserts opts.Users synthetic users, each a member of one to three of
// opts.Groups generated groups.
func (u *UserDB) Seed(opts SeedOptions) {
	if opts.Groups <= 0 {
		opts.Groups = 1
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	groups := make([]models.Group, opts.Groups)
	for i := range groups {
		roleIdx := rng.Intn(len(groupRoles))
		groups[i] = models.Group{
			ID:   strconv.Itoa(i + 1),
			Name: fmt.Sprintf("%s Group", groupWords[i%len(groupWords)]),
			Roles: []models.Role{{
				ID:   strconv.Itoa(roleIdx + 1),
				Name: groupRoles[roleIdx],
			}},
		}
	}

	for i := 0; i < opts.Users; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		status := models.StatusActive
		if rng.Intn(2) == 1 {
			status = models.StatusInactive
		}

		n := 1 + rng.Intn(3)
		if n > len(groups) {
			n = len(groups)
		}
		member := make([]models.Group, 0, n)
		for _, idx := range rng.Perm(len(groups))[:n] {
			member = append(member, groups[idx])
		}

		user := u.InsertUser(models.User{
			Name:      first + " " + last,
			Status:    status,
			CreatedAt: models.Timestamp{Time: opts.Now.Add(-time.Duration(i) * time.Hour)},
			Groups:    member,
		})
		user.Email = fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), user.ID)
		if _, err := u.UpdateUser(user); err != nil {
			u.Log.Error().Err(err).Int("user_id", user.ID).Msg("failed to set seeded email")
		}
	}

	u.Log.Info().Int("users", opts.Users).Int("groups", opts.Groups).Msg("seed complete")
}
