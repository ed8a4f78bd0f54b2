package competitiondomain

import (
	"sort"
	"time"
)

// Deadline is a closing moment of one window in a schedule.
type Deadline struct {
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// DeadlinesWithin returns the deadlines in (now, now+horizon], earliest first.
func DeadlinesWithin(d Dates, now time.Time, horizon time.Duration) []Deadline {
	all := []Deadline{
		{Label: "Registration", At: d.RegistrationDeadline},
		{Label: LabelPreliminary, At: d.PreliminaryDeadline},
		{Label: LabelSemifinal, At: d.SemifinalDeadline},
	}
	if d.FinalDeadline != nil {
		all = append(all, Deadline{Label: LabelFinal, At: *d.FinalDeadline})
	}

	limit := now.Add(horizon)
	var out []Deadline
	for _, dl := range all {
		if dl.At.After(now) && !dl.At.After(limit) {
			out = append(out, dl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
