// Package service runs the polling loop that keeps the snapshot cache in
// sync with the chain. Each cycle rebuilds every task from scratch; a task
// that fails to rebuild keeps its previous snapshot until the next cycle.
package service

import (
	"context"
	"math/big"
	"time"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/chainio"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/events"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/metadata"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/metrics"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/task"
	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

type Refresher struct {
	escrow          chainio.TaskReader
	arbitrator      chainio.ArbitrationReader
	fetcher         metadata.Fetcher
	builder         *task.Builder
	store           *cache.Store
	contractAddress string
	fromBlock       uint64
	interval        time.Duration
	logger          logging.Logger
}

func NewRefresher(
	escrow chainio.TaskReader,
	arbitrator chainio.ArbitrationReader,
	fetcher metadata.Fetcher,
	builder *task.Builder,
	store *cache.Store,
	contractAddress string,
	fromBlock uint64,
	interval time.Duration,
	logger logging.Logger,
) *Refresher {
	return &Refresher{
		escrow:          escrow,
		arbitrator:      arbitrator,
		fetcher:         fetcher,
		builder:         builder,
		store:           store,
		contractAddress: contractAddress,
		fromBlock:       fromBlock,
		interval:        interval,
		logger:          logger,
	}
}

// Run refreshes immediately, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Infof("Starting snapshot refresher with interval %s", r.interval)

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Snapshot refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()

	count, err := r.escrow.TaskCount(ctx)
	if err != nil {
		r.logger.Errorf("Failed to read task count: %v", err)
		return
	}

	var rebuilt, failed int
	for id := uint64(0); id < count; id++ {
		if ctx.Err() != nil {
			return
		}
		if err := r.rebuildTask(ctx, id); err != nil {
			metrics.SnapshotRebuildsTotal.WithLabelValues("failure").Inc()
			r.logger.Error("Failed to rebuild task snapshot", "task_id", id, "error", err)
			failed++
			continue
		}
		metrics.SnapshotRebuildsTotal.WithLabelValues("success").Inc()
		rebuilt++
	}

	metrics.RefreshCyclesTotal.Inc()
	metrics.TasksTracked.Set(float64(r.store.Len()))

	r.logger.Info("Refresh cycle complete",
		"tasks", count,
		"rebuilt", rebuilt,
		"failed", failed,
		"duration", time.Since(start),
	)
}

// rebuildTask collects every input for one task, rebuilds the snapshot
// through the pure builders and commits it wholesale.
func (r *Refresher) rebuildTask(ctx context.Context, taskID uint64) error {
	chain, err := r.escrow.TaskState(ctx, taskID)
	if err != nil {
		return err
	}

	var disputeID *big.Int
	if chain.DisputeID != "" {
		disputeID, _ = new(big.Int).SetString(chain.DisputeID, 10)
	}

	raw, err := r.escrow.TaskEvents(ctx, taskID, disputeID, r.fromBlock)
	if err != nil {
		return err
	}
	log, err := events.NormalizeAll(raw)
	if err != nil {
		return err
	}

	meta := r.fetchMetadata(ctx, taskID, log)

	t, err := r.builder.Build(taskID, r.contractAddress, chain, log, meta)
	if err != nil {
		return err
	}

	d := dispute.NoDispute(taskID)
	if t.HasDispute {
		rawDispute, err := r.arbitrator.DisputeState(ctx, t)
		if err != nil {
			return err
		}
		d, err = dispute.Build(rawDispute, t)
		if err != nil {
			return err
		}
	}

	r.store.Put(cache.Snapshot{
		Task:              t,
		Dispute:           d,
		TranslatorDeposit: r.fetchDeposit(ctx, t),
	})
	return nil
}

// fetchDeposit quotes the translator deposit for biddable tasks. A failed
// read degrades to nil; the deposit endpoint reports it as unavailable.
func (r *Refresher) fetchDeposit(ctx context.Context, t markettypes.Task) *pkgtypes.BigInt {
	if t.Status != markettypes.StatusCreated {
		return nil
	}
	raw, err := r.escrow.TranslatorDeposit(ctx, t.ID)
	if err != nil {
		r.logger.Warn("Deposit quote read failed", "task_id", t.ID, "error", err)
		return nil
	}
	deposit, err := pkgtypes.ParseBigInt(raw)
	if err != nil {
		r.logger.Warn("Malformed deposit quote", "task_id", t.ID, "value", raw, "error", err)
		return nil
	}
	return deposit
}

// fetchMetadata resolves the task's off-chain document. Fetch failures
// degrade to a nil document so one dead gateway never blocks snapshots.
func (r *Refresher) fetchMetadata(ctx context.Context, taskID uint64, log markettypes.EventLog) *task.Metadata {
	rec, ok := log.First(markettypes.EventMetaEvidence)
	if !ok {
		return nil
	}
	pointer := rec.StringParam("_evidence")
	if pointer == "" {
		return nil
	}

	meta, err := r.fetcher.FetchTaskMetadata(ctx, pointer)
	if err != nil {
		metrics.MetadataFetchFailuresTotal.Inc()
		r.logger.Warn("Metadata fetch degraded to empty document",
			"task_id", taskID,
			"pointer", pointer,
			"error", err,
		)
		return nil
	}
	return meta
}
