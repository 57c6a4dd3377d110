// Package generate bulk-creates randomized test attendees in a Campflow
// list, for load-testing the sync against a realistic sheet. Name pools are
// built in and can be replaced from a YAML file.
package generate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
)

// Creator is the slice of the Campflow client the generator needs.
type Creator interface {
	CreatePerson(ctx context.Context, payload map[string]any) ([]byte, error)
}

// Pools holds the sample values the generator draws from.
type Pools struct {
	FirstNames []string `yaml:"first_names"`
	LastNames  []string `yaml:"last_names"`
	Villages   []string `yaml:"villages"`
	TeamNames  []string `yaml:"team_names"`
}

// DefaultPools returns the built-in sample values.
func DefaultPools() Pools {
	return Pools{
		FirstNames: []string{"Tom", "Luca", "Mia", "Anna", "Jonas", "Lea", "Felix", "Paula"},
		LastNames:  []string{"Brüning", "Schmidt", "Meyer", "Fischer", "Schneider", "Wagner"},
		Villages: []string{
			"Spelle", "Andervenne", "Messingen", "Beesten",
			"Halverde", "Schapen", "Venhaus", "Freren",
		},
		TeamNames: []string{
			"Strandsäufer", "Feuerfüchse", "Waldkobolde", "Seeadler",
			"Bergsteiger", "Flussratten", "Wiesenhopser", "Sternschnuppen",
		},
	}
}

// Validate checks that every pool has at least one entry.
func (p Pools) Validate() error {
	for name, pool := range map[string][]string{
		"first_names": p.FirstNames,
		"last_names":  p.LastNames,
		"villages":    p.Villages,
		"team_names":  p.TeamNames,
	} {
		if len(pool) == 0 {
			return &errors.ValidationError{Field: name, Message: "pool must not be empty"}
		}
	}
	return nil
}

// Generator creates randomized attendees.
type Generator struct {
	creator Creator
	pools   Pools
	rng     *rand.Rand
	titler  cases.Caser
	now     func() time.Time
}

// New creates a generator. A zero Pools value falls back to the defaults.
func New(creator Creator, pools Pools, seed int64) (*Generator, error) {
	if len(pools.FirstNames) == 0 && len(pools.LastNames) == 0 &&
		len(pools.Villages) == 0 && len(pools.TeamNames) == 0 {
		pools = DefaultPools()
	}
	if err := pools.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		creator: creator,
		pools:   pools,
		rng:     rand.New(rand.NewSource(seed)),
		titler:  cases.Title(language.German),
		now:     time.Now,
	}, nil
}

// Run creates count attendees, numbering team names to keep them unique.
// The first failed request aborts the run; partial creation is fine because
// the generator targets test lists only.
func (g *Generator) Run(ctx context.Context, count int) error {
	if count <= 0 {
		return &errors.ValidationError{Field: "count", Value: count, Message: "must be positive"}
	}

	for i := 1; i <= count; i++ {
		payload := g.payload(i)
		ctx := logging.WithRequestID(ctx, uuid.NewString())

		if _, err := g.creator.CreatePerson(ctx, payload); err != nil {
			return fmt.Errorf("creating attendee %d of %d: %w", i, count, err)
		}
		logging.FromContext(ctx).Info().
			Int("n", i).
			Str("team", payload[constants.TeamColumn].(string)).
			Msg("Attendee created")
	}
	return nil
}

// payload builds one person-creation body with the fixed dummy contact data
// and randomized names.
func (g *Generator) payload(n int) map[string]any {
	first := g.pick(g.pools.FirstNames)
	last := g.pick(g.pools.LastNames)
	village := g.titler.String(g.pick(g.pools.Villages))
	team := fmt.Sprintf("%s %d", g.titler.String(g.pick(g.pools.TeamNames)), n)

	return map[string]any{
		"name":          map[string]any{"first_name": first, "last_name": last},
		"primary_email": "bvbt.messingen@gmail.com",
		"phone_numbers": []map[string]any{{"label": nil, "number": "+49 000 00000000"}},
		"address": map[string]any{
			"street":       "",
			"postcode":     "",
			"city":         village,
			"postal_info":  nil,
			"country_code": "de",
			"country_name": "Deutschland",
		},
		"birthdate":             g.birthdate(),
		"label_names":           []string{},
		constants.TeamColumn:    team,
		constants.VillageColumn: village,
	}
}

// birthdate returns YYYY-MM-DD for a random age between 10 and 25 years.
func (g *Generator) birthdate() string {
	const minAge, maxAge = 10, 25
	today := g.now()
	start := today.AddDate(0, 0, -maxAge*365)
	end := today.AddDate(0, 0, -minAge*365)
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.rng.Intn(days+1)).Format("2006-01-02")
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}
