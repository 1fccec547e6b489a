package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
)

const documentVersion = 1

// KV is the key-value store the tracker persists into.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Keys lists every key Save writes, in write order.
var Keys = []string{
	constants.KeyQuitDate,
	constants.KeyDailyCost,
	constants.KeySavingsGoal,
	constants.KeyHealthModel,
	constants.KeyHealthSteps,
	constants.KeyMilestones,
	constants.KeyCravings,
}

type document struct {
	Version     int             `json:"version"`
	SavedAt     time.Time       `json:"saved_at"`
	QuitDate    string          `json:"quit_date,omitempty"`
	DailyCost   string          `json:"daily_cost"`
	SavingsGoal string          `json:"savings_goal"`
	HealthModel string          `json:"health_model"`
	HealthSteps []Step          `json:"health_steps,omitempty"`
	Milestones  []Milestone     `json:"milestones"`
	Cravings    []CravingRecord `json:"cravings"`
}

// rawDocument is the decode side of document. It also reads the older
// camelCase layout that kept cravings under "data".
type rawDocument struct {
	QuitDate        string          `json:"quit_date"`
	DailyCost       json.RawMessage `json:"daily_cost"`
	SavingsGoal     json.RawMessage `json:"savings_goal"`
	HealthModel     string          `json:"health_model"`
	HealthSteps     json.RawMessage `json:"health_steps"`
	Milestones      json.RawMessage `json:"milestones"`
	Cravings        json.RawMessage `json:"cravings"`
	LegacyQuitDate  string          `json:"quitDate"`
	LegacyDailyCost json.RawMessage `json:"dailyCost"`
	LegacyData      *struct {
		Cravings json.RawMessage `json:"cravings"`
	} `json:"data"`
}

// Serialize encodes the tracker as a JSON document. A step table recovery
// model is written with its steps; other models by name only.
func (t *Tracker) Serialize() ([]byte, error) {
	var steps []Step
	if st, ok := t.recovery.(*StepTable); ok {
		steps = st.Steps()
	}
	doc := document{
		Version:     documentVersion,
		SavedAt:     t.clock.Now().UTC(),
		QuitDate:    t.record.QuitDate,
		DailyCost:   t.record.DailyCost.String(),
		SavingsGoal: t.savingsGoal.String(),
		HealthModel: t.recovery.Name(),
		HealthSteps: steps,
		Milestones:  t.Milestones(),
		Cravings:    t.cravings.Records(),
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize decodes a Serialize document into a new tracker built with
// opts. Missing fields keep their defaults and unknown fields are ignored.
// Invalid field values fall back to defaults with a warning. Only input that
// is not a JSON object fails, with a *DeserializationError.
func Deserialize(data []byte, opts ...Option) (*Tracker, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DeserializationError{Err: err}
	}
	t := New(opts...)
	t.apply(raw.values())
	return t, nil
}

// Restore is Deserialize that never fails: corrupt input yields New(opts...).
func Restore(data []byte, opts ...Option) *Tracker {
	t, err := Deserialize(data, opts...)
	if err != nil {
		logger.Warn("Discarding corrupt tracker data", "error", err)
		return New(opts...)
	}
	return t
}

func (r rawDocument) values() map[string]string {
	vals := make(map[string]string)
	if q := firstNonEmpty(r.QuitDate, r.LegacyQuitDate); q != "" {
		vals[constants.KeyQuitDate] = q
	}
	if raw := firstRaw(r.DailyCost, r.LegacyDailyCost); raw != nil {
		vals[constants.KeyDailyCost] = scalarOrRaw(raw)
	}
	if raw := firstRaw(r.SavingsGoal); raw != nil {
		vals[constants.KeySavingsGoal] = scalarOrRaw(raw)
	}
	if r.HealthModel != "" {
		vals[constants.KeyHealthModel] = r.HealthModel
	}
	if raw := firstRaw(r.HealthSteps); raw != nil {
		vals[constants.KeyHealthSteps] = string(raw)
	}
	if raw := firstRaw(r.Milestones); raw != nil {
		vals[constants.KeyMilestones] = string(raw)
	}
	cravings := r.Cravings
	if r.LegacyData != nil {
		cravings = firstRaw(cravings, r.LegacyData.Cravings)
	}
	if raw := firstRaw(cravings); raw != nil {
		vals[constants.KeyCravings] = string(raw)
	}
	return vals
}

func firstRaw(raws ...json.RawMessage) json.RawMessage {
	for _, r := range raws {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && !bytes.Equal(r, []byte("null")) {
			return r
		}
	}
	return nil
}

// scalarOrRaw unwraps JSON strings and numbers, and leaves anything else as
// text so the field decoder reports it.
func scalarOrRaw(raw json.RawMessage) string {
	s, err := rawScalar(raw)
	if err != nil {
		return string(raw)
	}
	return s
}

// Save writes every tracker key to kv.
func (t *Tracker) Save(kv KV) error {
	vals, err := t.values()
	if err != nil {
		return err
	}
	for _, key := range Keys {
		if err := kv.Set(key, vals[key]); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

// Load reads a tracker from kv. Store errors are returned; corrupt values
// fall back to defaults with a warning.
func Load(kv KV, opts ...Option) (*Tracker, error) {
	vals, err := readValues(kv)
	if err != nil {
		return nil, err
	}
	t := New(opts...)
	t.apply(vals)
	return t, nil
}

// Inspect reports every stored value Load would discard.
func Inspect(kv KV) ([]error, error) {
	vals, err := readValues(kv)
	if err != nil {
		return nil, err
	}
	var errs []error
	scratch := New()
	for _, f := range fields {
		if v, ok := vals[f.key]; ok {
			if err := f.decode(scratch, v); err != nil {
				errs = append(errs, &DeserializationError{Key: f.key, Err: err})
			}
		}
	}
	return errs, nil
}

func readValues(kv KV) (map[string]string, error) {
	vals := make(map[string]string)
	for _, key := range Keys {
		v, ok, err := kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		if ok {
			vals[key] = v
		}
	}
	return vals, nil
}

func (t *Tracker) values() (map[string]string, error) {
	milestones, err := json.Marshal(t.Milestones())
	if err != nil {
		return nil, err
	}
	cravings, err := json.Marshal(t.cravings.Records())
	if err != nil {
		return nil, err
	}
	var steps string
	if st, ok := t.recovery.(*StepTable); ok {
		b, err := json.Marshal(st.Steps())
		if err != nil {
			return nil, err
		}
		steps = string(b)
	}
	return map[string]string{
		constants.KeyQuitDate:    t.record.QuitDate,
		constants.KeyDailyCost:   t.record.DailyCost.String(),
		constants.KeySavingsGoal: t.savingsGoal.String(),
		constants.KeyHealthModel: t.recovery.Name(),
		constants.KeyHealthSteps: steps,
		constants.KeyMilestones:  string(milestones),
		constants.KeyCravings:    string(cravings),
	}, nil
}

type field struct {
	key    string
	decode func(t *Tracker, v string) error
}

// fields decode one stored value each. A decoder either fully applies its
// value or leaves the tracker untouched.
var fields = []field{
	{constants.KeyQuitDate, decodeQuitDate},
	{constants.KeyDailyCost, decodeDailyCost},
	{constants.KeySavingsGoal, decodeSavingsGoal},
	{constants.KeyHealthModel, decodeHealthModel},
	{constants.KeyHealthSteps, decodeHealthSteps},
	{constants.KeyMilestones, decodeMilestones},
	{constants.KeyCravings, decodeCravings},
}

func (t *Tracker) apply(vals map[string]string) {
	for _, f := range fields {
		v, ok := vals[f.key]
		if !ok {
			continue
		}
		if err := f.decode(t, v); err != nil {
			logger.Warn("Recovered corrupt tracker field", "key", f.key, "error", err)
		}
	}
}

func decodeQuitDate(t *Tracker, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		t.record.QuitDate = ""
		return nil
	}
	if d, err := time.Parse(constants.DateFormat, v); err == nil {
		t.record.QuitDate = d.Format(constants.DateFormat)
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	t.record.QuitDate = ts.In(t.loc).Format(constants.DateFormat)
	return nil
}

func decodeDailyCost(t *Tracker, v string) error {
	d, err := ParseAmount(v)
	if err != nil {
		return err
	}
	t.record.DailyCost = d
	return nil
}

func decodeSavingsGoal(t *Tracker, v string) error {
	d, err := ParseAmount(v)
	if err != nil {
		return err
	}
	t.savingsGoal = d
	return nil
}

// decodeHealthModel keeps an injected model whose name matches the stored one.
func decodeHealthModel(t *Tracker, v string) error {
	if v == t.recovery.Name() {
		return nil
	}
	m, err := ModelByName(v)
	if err != nil {
		return err
	}
	t.recovery = m
	return nil
}

// decodeHealthSteps replaces a step table model with the stored steps. It is
// a no-op for other models.
func decodeHealthSteps(t *Tracker, v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, ok := t.recovery.(*StepTable); !ok {
		return nil
	}
	var steps []Step
	if err := json.Unmarshal([]byte(v), &steps); err != nil {
		return err
	}
	st, err := NewStepTable(steps)
	if err != nil {
		return err
	}
	t.recovery = st
	return nil
}

func decodeMilestones(t *Tracker, v string) error {
	var ms []Milestone
	if err := json.Unmarshal([]byte(v), &ms); err != nil {
		return err
	}
	if err := ValidateMilestones(ms); err != nil {
		return err
	}
	if ms == nil {
		ms = []Milestone{}
	}
	t.milestones = ms
	return nil
}

// decodeCravings drops individual records with an out-of-range intensity or
// no timestamp. Records without an id get a fresh one.
func decodeCravings(t *Tracker, v string) error {
	var records []CravingRecord
	if err := json.Unmarshal([]byte(v), &records); err != nil {
		return err
	}
	kept := make([]CravingRecord, 0, len(records))
	for _, r := range records {
		if ValidateIntensity(r.Intensity) != nil || r.Timestamp.IsZero() {
			logger.Warn("Dropping invalid craving record", "id", r.ID, "intensity", r.Intensity)
			continue
		}
		if r.ID == "" {
			r.ID = t.newID()
		}
		kept = append(kept, r)
	}
	t.cravings.replace(kept)
	return nil
}
