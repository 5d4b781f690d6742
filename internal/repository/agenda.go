package repository

import (
	"context"

	"github.com/minsu-lee/agenda-api/internal/model"
)

type AgendaRepository interface {
	// InsertAgenda persists the agenda row only; tasks are inserted separately
	// so the carry-over follow-up can land as a second mutation.
	InsertAgenda(ctx context.Context, agenda model.Agenda) error
	InsertTasks(ctx context.Context, tasks []model.Task) error
	// ListByOwner returns all agendas newest-first, tasks in position order.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Agenda, error)
	AgendaExists(ctx context.Context, ownerID, agendaID string) (bool, error)
	SetTaskCompleted(ctx context.Context, ownerID, taskID string, completed bool) error
	// ReplaceTasks deletes the agenda's task set and inserts the new one.
	// The two steps are not wrapped in a transaction.
	ReplaceTasks(ctx context.Context, ownerID, agendaID string, tasks []model.Task) error
	DeleteAgenda(ctx context.Context, ownerID, agendaID string) error
}
