package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minsu-lee/agenda-api/internal/model"
)

type PostgresAgendaRepository struct {
	db *sql.DB
}

func NewPostgresAgenda(db *sql.DB) *PostgresAgendaRepository {
	return &PostgresAgendaRepository{db: db}
}

func (r *PostgresAgendaRepository) InsertAgenda(ctx context.Context, agenda model.Agenda) error {
	query := `
		INSERT INTO agendas (id, owner_id, title, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query,
		agenda.ID, agenda.OwnerID, agenda.Title, agenda.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert agenda: %w", err)
	}
	return nil
}

func (r *PostgresAgendaRepository) InsertTasks(ctx context.Context, tasks []model.Task) error {
	query := `
		INSERT INTO tasks (id, agenda_id, text, completed, is_carried_over, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, t := range tasks {
		if _, err := r.db.ExecContext(ctx, query,
			t.ID, t.AgendaID, t.Text, t.Completed, t.IsCarriedOver, t.Position, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
	}
	return nil
}

func (r *PostgresAgendaRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Agenda, error) {
	query := `
		SELECT id, owner_id, title, created_at
		FROM agendas
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agendas: %w", err)
	}
	defer rows.Close()

	var agendas []model.Agenda
	index := make(map[string]int)
	for rows.Next() {
		var a model.Agenda
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Title, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agenda: %w", err)
		}
		a.Tasks = []model.Task{}
		index[a.ID] = len(agendas)
		agendas = append(agendas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agendas: %w", err)
	}

	if len(agendas) == 0 {
		return []model.Agenda{}, nil
	}

	taskQuery := `
		SELECT t.id, t.agenda_id, t.text, t.completed, t.is_carried_over, t.position, t.created_at
		FROM tasks t
		JOIN agendas a ON a.id = t.agenda_id
		WHERE a.owner_id = $1
		ORDER BY t.position`

	taskRows, err := r.db.QueryContext(ctx, taskQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t model.Task
		if err := taskRows.Scan(&t.ID, &t.AgendaID, &t.Text, &t.Completed, &t.IsCarriedOver, &t.Position, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if i, ok := index[t.AgendaID]; ok {
			agendas[i].Tasks = append(agendas[i].Tasks, t)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return agendas, nil
}

func (r *PostgresAgendaRepository) AgendaExists(ctx context.Context, ownerID, agendaID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM agendas WHERE id = $1 AND owner_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, agendaID, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check agenda existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresAgendaRepository) SetTaskCompleted(ctx context.Context, ownerID, taskID string, completed bool) error {
	query := `
		UPDATE tasks SET completed = $1
		WHERE id = $2
		  AND agenda_id IN (SELECT id FROM agendas WHERE owner_id = $3)`

	result, err := r.db.ExecContext(ctx, query, completed, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update task completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresAgendaRepository) ReplaceTasks(ctx context.Context, ownerID, agendaID string, tasks []model.Task) error {
	exists, err := r.AgendaExists(ctx, ownerID, agendaID)
	if err != nil {
		return err
	}
	if !exists {
		return sql.ErrNoRows
	}

	// Delete-then-insert, deliberately untransacted: a failure between the
	// two steps leaves the agenda partially edited.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE agenda_id = $1`, agendaID); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	return r.InsertTasks(ctx, tasks)
}

func (r *PostgresAgendaRepository) DeleteAgenda(ctx context.Context, ownerID, agendaID string) error {
	// Task rows go with the agenda via ON DELETE CASCADE.
	query := `DELETE FROM agendas WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, agendaID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete agenda: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ensure compile-time interface compliance
var _ AgendaRepository = (*PostgresAgendaRepository)(nil)
