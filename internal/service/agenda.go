package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/minsu-lee/agenda-api/internal/agenda"
	"github.com/minsu-lee/agenda-api/internal/model"
	"github.com/minsu-lee/agenda-api/internal/repository"
)

// SubmitResult reports the outcome of the primary phase of a submission.
// CarryOver holds tasks that still need to be appended as the delayed
// follow-up mutation; it is non-empty only when Created is true.
type SubmitResult struct {
	Agenda    model.Agenda
	Created   bool
	CarryOver []model.Task
}

type AgendaService struct {
	repo repository.AgendaRepository
}

func NewAgendaService(repo repository.AgendaRepository) *AgendaService {
	return &AgendaService{repo: repo}
}

// Submit resolves the submitted texts against the owner's current agendas and
// executes the primary phase: either a new agenda with its typed tasks, or an
// append to today's existing agenda. Carried-over tasks are returned to the
// caller, not inserted here — they land as a separate delayed mutation.
func (s *AgendaService) Submit(ctx context.Context, ownerID string, texts []string, now time.Time) (SubmitResult, error) {
	existing, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to load agendas: %w", err)
	}

	res, err := agenda.Resolve(ownerID, existing, texts, now)
	if err != nil {
		return SubmitResult{}, err
	}

	if res.Kind == agenda.KindAppend {
		if err := s.repo.InsertTasks(ctx, res.Primary); err != nil {
			return SubmitResult{}, fmt.Errorf("failed to append tasks: %w", err)
		}
		target := res.Agenda
		target.Tasks = append(target.Tasks, res.Primary...)
		return SubmitResult{Agenda: target}, nil
	}

	if err := s.repo.InsertAgenda(ctx, res.Agenda); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to create agenda: %w", err)
	}

	if err := s.repo.InsertTasks(ctx, res.Primary); err != nil {
		// Compensating delete so a failed create doesn't strand an empty
		// agenda. If the compensation itself fails the original error
		// still wins.
		_ = s.repo.DeleteAgenda(ctx, ownerID, res.Agenda.ID)
		return SubmitResult{}, fmt.Errorf("failed to insert tasks: %w", err)
	}

	return SubmitResult{Agenda: res.Agenda, Created: true, CarryOver: res.CarryOver}, nil
}

// AppendCarryOver inserts the carried-over tasks produced by an earlier
// Submit. The target agenda may have been deleted while the follow-up was
// pending; in that case nothing is inserted and ErrNotFound is returned.
func (s *AgendaService) AppendCarryOver(ctx context.Context, ownerID, agendaID string, tasks []model.Task) error {
	exists, err := s.repo.AgendaExists(ctx, ownerID, agendaID)
	if err != nil {
		return fmt.Errorf("failed to check agenda: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.repo.InsertTasks(ctx, tasks); err != nil {
		return fmt.Errorf("failed to insert carried-over tasks: %w", err)
	}
	return nil
}

// EditTasks replaces the agenda's full task set with tasks built from the
// given texts, each non-completed and non-carried-over.
func (s *AgendaService) EditTasks(ctx context.Context, ownerID, agendaID string, texts []string, now time.Time) ([]model.Task, error) {
	tasks, err := agenda.ReplacementTasks(agendaID, texts, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceTasks(ctx, ownerID, agendaID, tasks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to replace tasks: %w", err)
	}
	return tasks, nil
}

func (s *AgendaService) SetTaskCompleted(ctx context.Context, ownerID, taskID string, completed bool) error {
	if err := s.repo.SetTaskCompleted(ctx, ownerID, taskID, completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set task completion: %w", err)
	}
	return nil
}

func (s *AgendaService) Delete(ctx context.Context, ownerID, agendaID string) error {
	if err := s.repo.DeleteAgenda(ctx, ownerID, agendaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete agenda: %w", err)
	}
	return nil
}

func (s *AgendaService) ListAll(ctx context.Context, ownerID string) ([]model.Agenda, error) {
	agendas, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agendas: %w", err)
	}
	return agendas, nil
}
