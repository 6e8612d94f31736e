// Package catalog holds the read-only stimulus and entity catalogs a drill
// session draws from.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/patterndrill/internal/pattern"
)

// EntityTagPrefix marks a stimulus tag that associates it with an entity.
const EntityTagPrefix = "v:"

// MinLevel and MaxLevel bound a stimulus difficulty level.
const (
	MinLevel = 1
	MaxLevel = 5
)

var validate = validator.New()

// Explanation is the human-readable rationale shown after an answer.
type Explanation struct {
	Summary string `json:"summary" validate:"required"`
	Trap    string `json:"trap,omitempty"`
}

// Stimulus is a single sentence to classify.
type Stimulus struct {
	ID          string          `json:"id" validate:"required"`
	Text        string          `json:"text" validate:"required"`
	Level       int             `json:"level" validate:"min=1,max=5"`
	Correct     pattern.Pattern `json:"correctPattern" validate:"min=1,max=5"`
	Tags        []string        `json:"tags,omitempty" validate:"omitempty,dive,required"`
	Explanation Explanation     `json:"explanation"`
}

// NewStimulus builds a validated stimulus.
func NewStimulus(id, text string, level int, correct pattern.Pattern, tags []string, exp Explanation) (Stimulus, error) {
	s := Stimulus{
		ID:          strings.TrimSpace(id),
		Text:        strings.TrimSpace(text),
		Level:       level,
		Correct:     correct,
		Tags:        tags,
		Explanation: exp,
	}
	if err := s.validate(); err != nil {
		return Stimulus{}, err
	}
	return s, nil
}

func (s Stimulus) validate() error {
	if err := validate.Struct(s); err != nil {
		return newValidationError("stimulus", s.ID, err)
	}
	return nil
}

// HasTag reports exact tag membership.
func (s Stimulus) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EntityIDs returns the entity ids referenced by the stimulus tags, in tag order.
func (s Stimulus) EntityIDs() []string {
	var ids []string
	for _, t := range s.Tags {
		if id, ok := strings.CutPrefix(t, EntityTagPrefix); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// EntityTag builds the stimulus tag for an entity id.
func EntityTag(id string) string {
	return EntityTagPrefix + id
}

// Rarity is the collectible tier of an entity card.
type Rarity string

const (
	RarityNormal    Rarity = "N"
	RarityRare      Rarity = "R"
	RaritySuperRare Rarity = "SR"
)

// DisplayName returns the human-readable tier name.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityNormal:
		return "Normal"
	case RarityRare:
		return "Rare"
	case RaritySuperRare:
		return "Super Rare"
	default:
		return string(r)
	}
}

// Entity is a trackable item (a verb) that stimuli are tagged with.
type Entity struct {
	ID             string          `json:"id" validate:"required"`
	Meaning        string          `json:"meaning" validate:"required"`
	TypicalPattern pattern.Pattern `json:"typicalPattern" validate:"min=1,max=5"`
	Rarity         Rarity          `json:"rarity" validate:"oneof=N R SR"`
}

// NewEntity builds a validated entity.
func NewEntity(id, meaning string, typical pattern.Pattern, rarity Rarity) (Entity, error) {
	e := Entity{ID: strings.TrimSpace(id), Meaning: meaning, TypicalPattern: typical, Rarity: rarity}
	if err := validate.Struct(e); err != nil {
		return Entity{}, newValidationError("entity", e.ID, err)
	}
	return e, nil
}

// Catalog is an immutable set of stimuli and entities in file order.
type Catalog struct {
	Version  string
	stimuli  []Stimulus
	entities []Entity
	byID     map[string]int
	entIdx   map[string]int
}

// New builds a catalog, rejecting invalid records and duplicate ids.
func New(version string, stimuli []Stimulus, entities []Entity) (*Catalog, error) {
	c := &Catalog{
		Version:  version,
		stimuli:  make([]Stimulus, 0, len(stimuli)),
		entities: make([]Entity, 0, len(entities)),
		byID:     make(map[string]int, len(stimuli)),
		entIdx:   make(map[string]int, len(entities)),
	}

	var errs []error
	for _, s := range stimuli {
		if err := s.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.byID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate stimulus id %q", s.ID))
			continue
		}
		c.byID[s.ID] = len(c.stimuli)
		c.stimuli = append(c.stimuli, s)
	}
	for _, e := range entities {
		if err := validate.Struct(e); err != nil {
			errs = append(errs, newValidationError("entity", e.ID, err))
			continue
		}
		if _, dup := c.entIdx[e.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate entity id %q", e.ID))
			continue
		}
		c.entIdx[e.ID] = len(c.entities)
		c.entities = append(c.entities, e)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// Stimuli returns all stimuli in catalog order. The slice must not be modified.
func (c *Catalog) Stimuli() []Stimulus {
	return c.stimuli
}

// Stimulus looks up a stimulus by id.
func (c *Catalog) Stimulus(id string) (Stimulus, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Stimulus{}, false
	}
	return c.stimuli[i], true
}

// Entities returns all entities in catalog order.
func (c *Catalog) Entities() []Entity {
	return c.entities
}

// Entity looks up an entity by id.
func (c *Catalog) Entity(id string) (Entity, bool) {
	i, ok := c.entIdx[id]
	if !ok {
		return Entity{}, false
	}
	return c.entities[i], true
}

// Tagged returns the stimuli carrying tag, in catalog order.
func (c *Catalog) Tagged(tag string) []Stimulus {
	var out []Stimulus
	for _, s := range c.stimuli {
		if s.HasTag(tag) {
			out = append(out, s)
		}
	}
	return out
}

// Tags returns every distinct tag in first-seen order.
func (c *Catalog) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, s := range c.stimuli {
		for _, t := range s.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// ValidationError reports which record failed validation and why.
type ValidationError struct {
	Kind string
	ID   string
	Err  error
}

func (e *ValidationError) Error() string {
	var fields []string
	var verrs validator.ValidationErrors
	if errors.As(e.Err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
		return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.ID, strings.Join(fields, ", "))
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(kind, id string, err error) *ValidationError {
	return &ValidationError{Kind: kind, ID: id, Err: err}
}
