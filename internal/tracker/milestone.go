package tracker

// Milestone is a day-count threshold with a recovery message.
type Milestone struct {
	ThresholdDays int    `json:"days"`
	Label         string `json:"text"`
}

// MilestoneProgress summarises how far elapsed days are along a milestone list.
type MilestoneProgress struct {
	CompletedCount    int     `json:"completed_count"`
	Total             int     `json:"total"`
	NextThreshold     int     `json:"next_threshold"`
	PreviousThreshold int     `json:"previous_threshold"`
	FractionToNext    float64 `json:"fraction_to_next"`
}

// MilestoneStatus is a milestone with its completion flag.
type MilestoneStatus struct {
	Milestone
	Completed bool `json:"completed"`
}

var defaultMilestones = []Milestone{
	{1, "Blood pressure and pulse begin to normalise"},
	{2, "Sense of taste and smell improve"},
	{3, "Breathing gets easier as the bronchi relax"},
	{7, "Circulation improves"},
	{14, "Lung function increases"},
	{30, "Coughing and shortness of breath decrease"},
	{90, "Risk of heart disease starts to fall"},
	{180, "Risk of stroke falls"},
	{365, "Risk of coronary heart disease is halved"},
	{1825, "Risk of several cancers is greatly reduced"},
}

// DefaultMilestones returns a fresh copy of the built-in milestone list.
func DefaultMilestones() []Milestone {
	cp := make([]Milestone, len(defaultMilestones))
	copy(cp, defaultMilestones)
	return cp
}

// ValidateMilestones requires positive, strictly ascending thresholds.
// An empty list is valid.
func ValidateMilestones(ms []Milestone) error {
	for i, m := range ms {
		if m.ThresholdDays <= 0 {
			return validationErr("milestones", "threshold %d must be positive", m.ThresholdDays)
		}
		if i > 0 && m.ThresholdDays <= ms[i-1].ThresholdDays {
			return validationErr("milestones", "threshold %d does not follow %d", m.ThresholdDays, ms[i-1].ThresholdDays)
		}
	}
	return nil
}

// ComputeProgress reports progress of elapsedDays along ms.
//
// ms must be sorted ascending by threshold; the result for unsorted input is
// undefined. The slice is only read. When no milestone remains the next
// threshold saturates at the last one and the fraction is 1.
func ComputeProgress(elapsedDays int, ms []Milestone) MilestoneProgress {
	p := MilestoneProgress{Total: len(ms)}
	if len(ms) == 0 {
		p.FractionToNext = 1
		return p
	}

	next := -1
	for _, m := range ms {
		if m.ThresholdDays <= elapsedDays {
			p.CompletedCount++
			p.PreviousThreshold = m.ThresholdDays
			continue
		}
		if next < 0 {
			next = m.ThresholdDays
		}
	}
	if next < 0 {
		next = ms[len(ms)-1].ThresholdDays
	}
	p.NextThreshold = next

	span := p.NextThreshold - p.PreviousThreshold
	if span <= 0 {
		p.FractionToNext = 1
		return p
	}
	p.FractionToNext = clamp01(float64(elapsedDays-p.PreviousThreshold) / float64(span))
	return p
}

// Completed pairs each milestone with whether elapsedDays has reached it.
func Completed(elapsedDays int, ms []Milestone) []MilestoneStatus {
	out := make([]MilestoneStatus, len(ms))
	for i, m := range ms {
		out[i] = MilestoneStatus{Milestone: m, Completed: m.ThresholdDays <= elapsedDays}
	}
	return out
}
