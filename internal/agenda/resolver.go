// Package agenda holds the carry-over resolver: the pure rules that decide,
// for a batch of submitted task texts, whether a new agenda is created or
// today's agenda is appended to, and which incomplete tasks from the most
// recent prior agenda are duplicated into a new one.
package agenda

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minsu-lee/agenda-api/internal/model"
)

// ErrNoTasks is returned when a submission contains no non-blank task texts.
// The caller must not perform any mutation in that case.
var ErrNoTasks = errors.New("no tasks provided")

type Kind int

const (
	// KindCreate means a new agenda is synthesized with today's title.
	KindCreate Kind = iota
	// KindAppend means the texts join today's existing agenda.
	KindAppend
)

func (k Kind) String() string {
	if k == KindAppend {
		return "append"
	}
	return "create"
}

// Resolution is the resolver's decision. Primary and CarryOver are kept
// separate because they are persisted as two distinct mutations: primary
// tasks first, carried-over tasks as a delayed follow-up.
type Resolution struct {
	Kind Kind
	// Agenda is the synthesized agenda in create mode (tasks = Primary),
	// or the existing target agenda in append mode.
	Agenda model.Agenda
	// Primary are the tasks built from the submitted texts.
	Primary []model.Task
	// CarryOver are fresh copies of the prior agenda's incomplete tasks.
	// Always empty in append mode.
	CarryOver []model.Task
}

// FilterTexts trims the submitted texts and drops blank entries, preserving
// order. A blank task is never persisted.
func FilterTexts(texts []string) []string {
	var out []string
	for _, s := range texts {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Resolve decides the outcome of submitting texts at the given moment.
// existing must be ordered newest-first; existing[0] is the only agenda
// consulted, both as the append target and as the carry-over source.
func Resolve(ownerID string, existing []model.Agenda, texts []string, now time.Time) (Resolution, error) {
	filtered := FilterTexts(texts)
	if len(filtered) == 0 {
		return Resolution{}, ErrNoTasks
	}

	// Append mode: today's agenda already exists. Carry-over never applies
	// here, even if the prior agenda still has incomplete tasks.
	if len(existing) > 0 && existing[0].IsToday(now) {
		target := existing[0]
		tasks := buildTasks(target.ID, filtered, len(target.Tasks), false, now)
		return Resolution{Kind: KindAppend, Agenda: target, Primary: tasks}, nil
	}

	created := model.Agenda{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     model.TitleFor(now),
		CreatedAt: now,
	}
	primary := buildTasks(created.ID, filtered, 0, false, now)
	created.Tasks = primary

	res := Resolution{Kind: KindCreate, Agenda: created, Primary: primary}

	// Carry-over reads only the single most recent prior agenda. A copy
	// gets a fresh identity; toggling it later never touches the original.
	if len(existing) > 0 {
		pos := len(primary)
		for _, t := range existing[0].IncompleteTasks() {
			res.CarryOver = append(res.CarryOver, model.Task{
				ID:            uuid.NewString(),
				AgendaID:      created.ID,
				Text:          t.Text,
				Completed:     false,
				IsCarriedOver: true,
				Position:      pos,
				CreatedAt:     now,
			})
			pos++
		}
	}

	return res, nil
}

// ReplacementTasks builds the full task set for an edit (replace) of an
// existing agenda: every task comes back non-completed and non-carried-over.
func ReplacementTasks(agendaID string, texts []string, now time.Time) ([]model.Task, error) {
	filtered := FilterTexts(texts)
	if len(filtered) == 0 {
		return nil, ErrNoTasks
	}
	return buildTasks(agendaID, filtered, 0, false, now), nil
}

func buildTasks(agendaID string, texts []string, startPos int, carried bool, now time.Time) []model.Task {
	tasks := make([]model.Task, 0, len(texts))
	for i, text := range texts {
		tasks = append(tasks, model.Task{
			ID:            uuid.NewString(),
			AgendaID:      agendaID,
			Text:          text,
			Completed:     false,
			IsCarriedOver: carried,
			Position:      startPos + i,
			CreatedAt:     now,
		})
	}
	return tasks
}
