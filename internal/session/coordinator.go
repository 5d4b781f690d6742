// Package session keeps an in-memory snapshot of an owner's agendas and
// reconciles optimistic local changes with the remote store: mutations apply
// locally first, and a remote failure is answered with a toast plus a full
// authoritative re-fetch rather than a patch-based rollback.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/minsu-lee/agenda-api/internal/agenda"
	"github.com/minsu-lee/agenda-api/internal/model"
	"github.com/minsu-lee/agenda-api/internal/notify"
	"github.com/minsu-lee/agenda-api/internal/service"
)

// DefaultCarryOverDelay is how long carried-over tasks wait before they are
// appended to a freshly created agenda. The pause is intentional pacing: the
// typed tasks appear first, the carried ones slide in a beat later.
const DefaultCarryOverDelay = 1000 * time.Millisecond

// ErrNotConfirmed is returned when a destructive operation is attempted
// without explicit confirmation. No state changes.
var ErrNotConfirmed = errors.New("confirmation required")

// Messages shown through the notification channel.
const (
	msgNoTasks      = "NAH, ADD A TASK FIRST"
	msgAgendaAdded  = "AGENDA ADDED"
	msgAgendaEdited = "AGENDA UPDATED"
	msgAgendaGone   = "AGENDA DELETED"
	msgSaveFailed   = "FAILED TO SAVE"
	msgDeleteFailed = "FAILED TO DELETE"
)

type Coordinator struct {
	svc      *service.AgendaService
	notifier *notify.Notifier
	logger   *slog.Logger
	delay    time.Duration

	mu        sync.Mutex
	snapshots map[string][]model.Agenda

	// now and after are overridable in tests.
	now   func() time.Time
	after func(d time.Duration, f func())
}

func NewCoordinator(svc *service.AgendaService, notifier *notify.Notifier, logger *slog.Logger, delay time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultCarryOverDelay
	}
	return &Coordinator{
		svc:       svc,
		notifier:  notifier,
		logger:    logger,
		delay:     delay,
		snapshots: make(map[string][]model.Agenda),
		now:       time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// SetClock replaces the coordinator's time source. Intended for tests.
func (c *Coordinator) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// SetAfterFunc replaces the one-shot timer used for the carry-over
// follow-up. Intended for tests.
func (c *Coordinator) SetAfterFunc(after func(d time.Duration, f func())) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.after = after
}

// Agendas returns the owner's current local snapshot, newest-first.
func (c *Coordinator) Agendas(ownerID string) []model.Agenda {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneAgendas(c.snapshots[ownerID])
}

// Refresh replaces the local snapshot with the remote state. A read failure
// is logged and the prior snapshot kept; no notification is shown.
func (c *Coordinator) Refresh(ctx context.Context, ownerID string) []model.Agenda {
	agendas, err := c.svc.ListAll(ctx, ownerID)
	if err != nil {
		c.logger.Error("agenda refresh failed", "owner_id", ownerID, "error", err)
		return c.Agendas(ownerID)
	}

	c.mu.Lock()
	c.snapshots[ownerID] = agendas
	c.mu.Unlock()
	return cloneAgendas(agendas)
}

// Submit runs a task submission: validation, create-or-append, success toast,
// refresh, and — when a new agenda picked up incomplete tasks from the prior
// one — the delayed carry-over append.
func (c *Coordinator) Submit(ctx context.Context, ownerID string, texts []string) (service.SubmitResult, error) {
	res, err := c.svc.Submit(ctx, ownerID, texts, c.now())
	if err != nil {
		if errors.Is(err, agenda.ErrNoTasks) {
			c.notifier.Notify(msgNoTasks, notify.KindError)
		} else {
			c.notifier.Notify(msgSaveFailed, notify.KindError)
		}
		return service.SubmitResult{}, err
	}

	c.notifier.Notify(msgAgendaAdded, notify.KindSuccess)
	c.Refresh(ctx, ownerID)

	if len(res.CarryOver) > 0 {
		c.scheduleCarryOver(ownerID, res.Agenda.ID, res.CarryOver)
	}

	return res, nil
}

// scheduleCarryOver arms the one-shot follow-up that appends carried-over
// tasks to the given agenda. The append is guarded by an existence check at
// fire time: if the agenda is gone by then, the follow-up is a no-op.
func (c *Coordinator) scheduleCarryOver(ownerID, agendaID string, tasks []model.Task) {
	c.after(c.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if !c.snapshotHasAgenda(ownerID, agendaID) {
			c.logger.Info("carry-over target no longer present, skipping", "agenda_id", agendaID)
			return
		}

		if err := c.svc.AppendCarryOver(ctx, ownerID, agendaID, tasks); err != nil {
			// Primary tasks stay committed; the miss is logged, not toasted.
			c.logger.Error("carry-over append failed", "agenda_id", agendaID, "error", err)
			return
		}

		c.Refresh(ctx, ownerID)
	})
}

func (c *Coordinator) snapshotHasAgenda(ownerID, agendaID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.snapshots[ownerID] {
		if a.ID == agendaID {
			return true
		}
	}
	return false
}

// ToggleTask flips the task's completed flag locally, then issues the remote
// update. On remote failure the optimistic flip is discarded by re-fetching
// the authoritative state. Returns the optimistic value.
func (c *Coordinator) ToggleTask(ctx context.Context, ownerID, agendaID, taskID string) (bool, error) {
	c.mu.Lock()
	newValue, ok := c.flipLocked(ownerID, agendaID, taskID)
	c.mu.Unlock()
	if !ok {
		return false, service.ErrNotFound
	}

	if err := c.svc.SetTaskCompleted(ctx, ownerID, taskID, newValue); err != nil {
		c.notifier.Notify(msgSaveFailed, notify.KindError)
		c.Refresh(ctx, ownerID)
		return newValue, err
	}

	return newValue, nil
}

func (c *Coordinator) flipLocked(ownerID, agendaID, taskID string) (bool, bool) {
	agendas := c.snapshots[ownerID]
	for ai := range agendas {
		if agendas[ai].ID != agendaID {
			continue
		}
		for ti := range agendas[ai].Tasks {
			if agendas[ai].Tasks[ti].ID == taskID {
				agendas[ai].Tasks[ti].Completed = !agendas[ai].Tasks[ti].Completed
				return agendas[ai].Tasks[ti].Completed, true
			}
		}
	}
	return false, false
}

// EditTasks replaces the agenda's task set with tasks built from the given
// texts and refreshes on success.
func (c *Coordinator) EditTasks(ctx context.Context, ownerID, agendaID string, texts []string) ([]model.Task, error) {
	tasks, err := c.svc.EditTasks(ctx, ownerID, agendaID, texts, c.now())
	if err != nil {
		if errors.Is(err, agenda.ErrNoTasks) {
			c.notifier.Notify(msgNoTasks, notify.KindError)
		} else if !errors.Is(err, service.ErrNotFound) {
			c.notifier.Notify(msgSaveFailed, notify.KindError)
		}
		return nil, err
	}

	c.notifier.Notify(msgAgendaEdited, notify.KindSuccess)
	c.Refresh(ctx, ownerID)
	return tasks, nil
}

// Delete removes an agenda and its tasks. Without confirmation nothing
// happens; no optimistic removal is applied, so a remote failure leaves the
// local snapshot untouched.
func (c *Coordinator) Delete(ctx context.Context, ownerID, agendaID string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := c.svc.Delete(ctx, ownerID, agendaID); err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			c.notifier.Notify(msgDeleteFailed, notify.KindError)
		}
		return err
	}

	c.Refresh(ctx, ownerID)
	c.notifier.Notify(msgAgendaGone, notify.KindSuccess)
	return nil
}

func cloneAgendas(agendas []model.Agenda) []model.Agenda {
	out := make([]model.Agenda, len(agendas))
	copy(out, agendas)
	for i := range out {
		tasks := make([]model.Task, len(out[i].Tasks))
		copy(tasks, out[i].Tasks)
		out[i].Tasks = tasks
	}
	return out
}
