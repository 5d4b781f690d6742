package model

import "time"

// TitleLayout renders a date the way agenda titles are displayed and matched,
// e.g. "Monday, January 5". Title equality is the natural key for "today's
// agenda", so the layout must stay stable.
const TitleLayout = "Monday, January 2"

// TitleFor derives the agenda title for the given moment.
func TitleFor(t time.Time) string {
	return t.Format(TitleLayout)
}

type Task struct {
	ID            string    `json:"id"`
	AgendaID      string    `json:"agenda_id"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	IsCarriedOver bool      `json:"is_carried_over"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

type Agenda struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Tasks     []Task    `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
}

// IsToday reports whether the agenda's title matches the formatted title for
// the given moment. Matching is by title string, not by date range.
func (a Agenda) IsToday(now time.Time) bool {
	return a.Title == TitleFor(now)
}

// CompletedCount returns how many of the agenda's tasks are completed.
func (a Agenda) CompletedCount() int {
	n := 0
	for _, t := range a.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// IncompleteTasks returns the tasks with completed == false, in display order.
func (a Agenda) IncompleteTasks() []Task {
	var out []Task
	for _, t := range a.Tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

type Tier string

const (
	TierRed    Tier = "red"
	TierOrange Tier = "orange"
	TierGreen  Tier = "green"
)

// TierFor classifies an agenda's completion ratio. An empty agenda is red.
// Boundaries are inclusive lower bounds: exactly 30% is orange, exactly 80%
// is green.
func TierFor(total, completed int) Tier {
	if total == 0 {
		return TierRed
	}
	pct := float64(completed) / float64(total) * 100
	switch {
	case pct >= 80:
		return TierGreen
	case pct >= 30:
		return TierOrange
	default:
		return TierRed
	}
}

// Tier returns the completion tier for the agenda's current task set.
func (a Agenda) Tier() Tier {
	return TierFor(len(a.Tasks), a.CompletedCount())
}
