package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/pricing"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
)

type Handler struct {
	store  *cache.Store
	logger logging.Logger
	now    func() time.Time
}

func NewHandler(store *cache.Store, logger logging.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	snapshots := h.store.List()
	views := make([]TaskView, 0, len(snapshots))
	for _, snapshot := range snapshots {
		views = append(views, newTaskView(snapshot.Task, now))
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newTaskView(snapshot.Task, h.now()))
}

func (h *Handler) GetTaskPrice(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.lookup(w, r)
	if !ok {
		return
	}
	view := newTaskView(snapshot.Task, h.now())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":                snapshot.Task.ID,
		"current_price":          view.CurrentPrice,
		"current_price_per_word": view.CurrentPricePerWord,
	})
}

func (h *Handler) GetTaskDeposit(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if snapshot.TranslatorDeposit == nil {
		http.Error(w, "deposit quote unavailable", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":           snapshot.Task.ID,
		"current_deposit":   snapshot.TranslatorDeposit,
		"projected_deposit": pricing.ProjectedDeposit(snapshot.Task, snapshot.TranslatorDeposit, pricing.DefaultDepositHorizon),
	})
}

func (h *Handler) GetTaskDispute(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if !snapshot.Task.HasDispute {
		http.Error(w, "task has no dispute", http.StatusNotFound)
		return
	}

	view, err := newDisputeView(snapshot, h.now())
	if err != nil {
		if errors.Is(err, dispute.ErrBothSidesFunded) {
			h.logger.Errorf("[GetTaskDispute] Inconsistent appeal funding for task %d: %v", snapshot.Task.ID, err)
			http.Error(w, "inconsistent appeal funding state", http.StatusConflict)
			return
		}
		h.logger.Errorf("[GetTaskDispute] Error building dispute view: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"tasks_tracked": h.store.Len(),
	})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (cache.Snapshot, bool) {
	idRaw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(idRaw, 10, 64)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return cache.Snapshot{}, false
	}
	snapshot, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "task not found", http.StatusNotFound)
		return cache.Snapshot{}, false
	}
	return snapshot, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Errorf("[writeJSON] Error encoding response: %v", err)
	}
}
