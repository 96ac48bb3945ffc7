package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"sync-service/internal/gateway"
	"sync-service/internal/observability"
	"sync-service/internal/repositories"
)

// ErrQueueFull is returned when the batch queue cannot take another job.
var ErrQueueFull = errors.New("sync queue is full")

// FullSyncPlan is the synchronous half of a full sync: the instance is
// resolved and the group list fetched so the caller can report how much work
// was queued, then the worker does the rest.
type FullSyncPlan struct {
	Instance   string
	InstanceID int
	Groups     []gateway.Group
}

// PlanFullSync resolves the instance and lists its groups. The actual
// per-group work happens in the BatchWorker.
func (s *Service) PlanFullSync(ctx context.Context, instance string) (FullSyncPlan, error) {
	inst, err := s.instances.GetOrCreate(ctx, instance)
	if err != nil {
		return FullSyncPlan{}, fmt.Errorf("resolve instance %q: %w", instance, err)
	}

	groups, err := s.gateway.ListGroups(ctx, instance, false)
	if err != nil {
		observability.IncGatewayError()
		return FullSyncPlan{}, fmt.Errorf("list groups: %w", err)
	}

	return FullSyncPlan{Instance: instance, InstanceID: inst.ID, Groups: groups}, nil
}

// BatchJob is one queued full sync: refresh metadata and deep-sync
// participants for every group, in the gateway's order.
type BatchJob struct {
	Instance   string
	InstanceID int
	Groups     []gateway.Group
}

// BatchWorker drains full-sync jobs outside any request lifecycle. One worker
// goroutine processes jobs sequentially; a pacing delay between groups keeps
// the gateway under its rate limit. A failed group is logged and the run
// advances; nothing escalates out of a batch.
type BatchWorker struct {
	service *Service
	pace    time.Duration
	jobs    chan BatchJob
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewBatchWorker constructs a BatchWorker.
func NewBatchWorker(service *Service, pace time.Duration, logger *zap.Logger) *BatchWorker {
	return &BatchWorker{
		service: service,
		pace:    pace,
		jobs:    make(chan BatchJob, 16),
		logger:  logger,
	}
}

// Start launches the worker loop. The loop exits when the context is
// cancelled or the queue is closed.
func (w *BatchWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-w.jobs:
				if !ok {
					return
				}
				w.run(ctx, job)
				observability.DecBatchJobsInflight()
			}
		}
	}()
}

// Stop closes the queue and waits for the in-flight job to finish.
func (w *BatchWorker) Stop() {
	close(w.jobs)
	w.wg.Wait()
}

// Submit queues a job without blocking the caller.
func (w *BatchWorker) Submit(job BatchJob) error {
	select {
	case w.jobs <- job:
		observability.IncBatchJobsInflight()
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *BatchWorker) run(ctx context.Context, job BatchJob) {
	ctx, span := otel.Tracer("sync-service/syncer").Start(ctx, "batch.full_sync")
	defer span.End()
	span.SetAttributes(
		attribute.String("sync.instance", job.Instance),
		attribute.Int("sync.groups", len(job.Groups)),
	)

	total := len(job.Groups)
	failed := 0
	for i, group := range job.Groups {
		w.logger.Info("syncing group",
			zap.Int("position", i+1),
			zap.Int("total", total),
			zap.String("group_jid", group.ID),
			zap.String("subject", group.Subject))

		if err := w.syncOne(ctx, job, group); err != nil {
			failed++
			observability.IncBatchGroupFailure()
			w.logger.Error("group sync failed",
				zap.String("group_jid", group.ID),
				zap.Error(err))
		}

		if w.pace > 0 && i < total-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.pace):
			}
		}
	}

	w.logger.Info("full sync complete",
		zap.String("instance", job.Instance),
		zap.Int("groups", total),
		zap.Int("failed", failed))
	w.service.emitter.Emit(ctx, "full_sync_completed", job.Instance, "", map[string]any{
		"groups": total,
		"failed": failed,
	})
}

func (w *BatchWorker) syncOne(ctx context.Context, job BatchJob, group gateway.Group) error {
	params := repositories.UpsertGroupParams{
		GroupJID:         group.ID,
		Name:             groupName(group.Subject),
		Description:      group.Description,
		ParticipantCount: group.Size,
		InstanceID:       job.InstanceID,
	}
	if _, err := w.service.groups.Upsert(ctx, params); err != nil {
		return fmt.Errorf("upsert group metadata: %w", err)
	}
	if _, err := w.service.RescueGroup(ctx, job.Instance, group.ID); err != nil {
		return fmt.Errorf("deep participant sync: %w", err)
	}
	return nil
}
