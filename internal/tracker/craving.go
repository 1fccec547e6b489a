package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/quitline/internal/constants"
)

// OtherCopingMethod is the choice that stands for free text.
const OtherCopingMethod = "other"

// CopingMethods are the suggested coping methods, in the order the dashboard
// offers them. Any other text is accepted too.
var CopingMethods = []string{"breathing", "walk", "water", "chewing gum", "called someone", OtherCopingMethod}

// CravingRecord is one logged craving.
type CravingRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Intensity    int       `json:"intensity"`
	CopingMethod string    `json:"coping_method,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// UnmarshalJSON accepts the current layout and older ones that used
// date/time, copingMethod/method, numeric ids and string intensities.
func (r *CravingRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                 json.RawMessage `json:"id"`
		Timestamp          *time.Time      `json:"timestamp"`
		Date               *time.Time      `json:"date"`
		Time               *time.Time      `json:"time"`
		Intensity          json.RawMessage `json:"intensity"`
		CopingMethod       string          `json:"coping_method"`
		LegacyCopingMethod string          `json:"copingMethod"`
		Method             string          `json:"method"`
		Note               string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := rawScalar(raw.ID)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	intensity, err := rawScalar(raw.Intensity)
	if err != nil {
		return fmt.Errorf("intensity: %w", err)
	}

	out := CravingRecord{ID: id, Note: raw.Note}
	if intensity != "" {
		n, err := strconv.Atoi(intensity)
		if err != nil {
			return fmt.Errorf("intensity: %q is not an integer", intensity)
		}
		out.Intensity = n
	}
	switch {
	case raw.Timestamp != nil:
		out.Timestamp = raw.Timestamp.UTC()
	case raw.Date != nil:
		out.Timestamp = raw.Date.UTC()
	case raw.Time != nil:
		out.Timestamp = raw.Time.UTC()
	}
	out.CopingMethod = firstNonEmpty(raw.CopingMethod, raw.LegacyCopingMethod, raw.Method)

	*r = out
	return nil
}

// rawScalar returns a JSON string or number as text.
func rawScalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var intensityLabels = [...]string{"mild", "moderate", "strong", "very strong"}

// DefaultIntensity is preselected when recording a craving.
const DefaultIntensity = 3

// IntensityLabel names an intensity, or returns "" when out of range.
func IntensityLabel(intensity int) string {
	if ValidateIntensity(intensity) != nil {
		return ""
	}
	return intensityLabels[intensity-constants.MinIntensity]
}

// ValidateIntensity requires an intensity within 1..4.
func ValidateIntensity(intensity int) error {
	if intensity < constants.MinIntensity || intensity > constants.MaxIntensity {
		return validationErr("intensity", "%d out of range %d..%d", intensity, constants.MinIntensity, constants.MaxIntensity)
	}
	return nil
}

// CravingLog is an append-only log holding at most Capacity records.
// Appending to a full log evicts the oldest record.
type CravingLog struct {
	records  []CravingRecord
	capacity int
}

// NewCravingLog returns an empty log. A non-positive capacity uses the default.
func NewCravingLog(capacity int) *CravingLog {
	if capacity <= 0 {
		capacity = constants.MaxCravingRecords
	}
	return &CravingLog{capacity: capacity}
}

func (l *CravingLog) Append(r CravingRecord) {
	l.records = append(l.records, r)
	if over := len(l.records) - l.capacity; over > 0 {
		l.records = append([]CravingRecord(nil), l.records[over:]...)
	}
}

// Records returns the log oldest first.
func (l *CravingLog) Records() []CravingRecord {
	cp := make([]CravingRecord, len(l.records))
	copy(cp, l.records)
	return cp
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (l *CravingLog) Recent(n int) []CravingRecord {
	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]CravingRecord, 0, n)
	for i := len(l.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.records[i])
	}
	return out
}

func (l *CravingLog) Len() int      { return len(l.records) }
func (l *CravingLog) Capacity() int { return l.capacity }
func (l *CravingLog) Clear()        { l.records = nil }

// replace swaps in records, keeping only the newest capacity entries.
func (l *CravingLog) replace(records []CravingRecord) {
	l.records = nil
	for _, r := range records {
		l.Append(r)
	}
}
