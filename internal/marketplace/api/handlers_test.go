package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguoexchange/linguo-backend/internal/marketplace/cache"
	"github.com/linguoexchange/linguo-backend/internal/marketplace/dispute"
	markettypes "github.com/linguoexchange/linguo-backend/internal/marketplace/types"
	"github.com/linguoexchange/linguo-backend/pkg/logging"
	pkgtypes "github.com/linguoexchange/linguo-backend/pkg/types"
)

var testNow = time.Unix(1700000250, 0).UTC()

func testHandler(store *cache.Store) *Handler {
	return &Handler{
		store:  store,
		logger: &logging.NoopLogger{},
		now:    func() time.Time { return testNow },
	}
}

func testRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.HandleFunc("/api/tasks", h.GetTasks).Methods("GET")
	router.HandleFunc("/api/tasks/{id}", h.GetTask).Methods("GET")
	router.HandleFunc("/api/tasks/{id}/price", h.GetTaskPrice).Methods("GET")
	router.HandleFunc("/api/tasks/{id}/deposit", h.GetTaskDeposit).Methods("GET")
	router.HandleFunc("/api/tasks/{id}/dispute", h.GetTaskDispute).Methods("GET")
	return router
}

func biddableSnapshot(taskID uint64) cache.Snapshot {
	return cache.Snapshot{
		Task: markettypes.Task{
			ID:                taskID,
			Status:            markettypes.StatusCreated,
			MinPrice:          pkgtypes.MustParseBigInt("100"),
			MaxPrice:          pkgtypes.MustParseBigInt("200"),
			SubmissionTimeout: 1000,
			LastInteraction:   time.Unix(1700000000, 0).UTC(),
			Requester:         "0x1111111111111111111111111111111111111111",
			LifecycleEvents:   markettypes.EventLog{},
		},
		Dispute: dispute.NoDispute(taskID),
	}
}

func disputedSnapshot(taskID uint64) cache.Snapshot {
	snapshot := biddableSnapshot(taskID)
	snapshot.Task.Status = markettypes.StatusDisputeCreated
	snapshot.Task.HasDispute = true
	snapshot.Task.DisputeID = pkgtypes.MustParseBigInt("9")
	snapshot.Dispute = markettypes.Dispute{
		ID:     pkgtypes.MustParseBigInt("9"),
		TaskID: taskID,
		Status: markettypes.DisputeAppealable,
		Ruling: markettypes.RulingTranslationApproved,
		AppealPeriod: markettypes.AppealPeriod{
			Start: time.Unix(1700000000, 0).UTC(),
			End:   time.Unix(1700001000, 0).UTC(),
		},
		AppealCost: pkgtypes.MustParseBigInt("1000"),
		LatestRound: markettypes.Round{
			HasPaid: map[markettypes.TaskParty]bool{
				markettypes.PartyTranslator: false,
				markettypes.PartyChallenger: false,
			},
			PaidFees: map[markettypes.TaskParty]*pkgtypes.BigInt{
				markettypes.PartyTranslator: pkgtypes.Zero(),
				markettypes.PartyChallenger: pkgtypes.Zero(),
			},
			FeeRewards: pkgtypes.Zero(),
		},
		WinnerStakeMultiplier: pkgtypes.MustParseBigInt("5000"),
		LoserStakeMultiplier:  pkgtypes.MustParseBigInt("20000"),
		SharedStakeMultiplier: pkgtypes.MustParseBigInt("5000"),
		MultiplierDivisor:     pkgtypes.MustParseBigInt("10000"),
	}
	return snapshot
}

func doRequest(t *testing.T, router *mux.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGetTasks(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(2))
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/api/tasks")
	require.Equal(t, http.StatusOK, recorder.Code)

	var views []TaskView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, uint64(1), views[0].ID)
	assert.Equal(t, uint64(2), views[1].ID)
	assert.True(t, views[0].IsPending)
	// 250s into a 100->200 curve over 1000s.
	assert.Equal(t, "125", views[0].CurrentPrice.String())
}

func TestGetTasks_Empty(t *testing.T) {
	router := testRouter(testHandler(cache.NewStore()))

	recorder := doRequest(t, router, "/api/tasks")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, "[]", recorder.Body.String())
}

func TestGetTask(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/api/tasks/1")
	require.Equal(t, http.StatusOK, recorder.Code)

	var view TaskView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Equal(t, uint64(1), view.ID)
	assert.Equal(t, int64(750), view.RemainingSubmissionSeconds)

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, "/api/tasks/99").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, router, "/api/tasks/abc").Code)
}

func TestGetTaskPrice(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/api/tasks/1/price")
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload struct {
		TaskID              uint64           `json:"task_id"`
		CurrentPrice        *pkgtypes.BigInt `json:"current_price"`
		CurrentPricePerWord *pkgtypes.BigInt `json:"current_price_per_word"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, uint64(1), payload.TaskID)
	assert.Equal(t, "125", payload.CurrentPrice.String())
}

func TestGetTaskDeposit(t *testing.T) {
	snapshot := biddableSnapshot(1)
	snapshot.TranslatorDeposit = pkgtypes.MustParseBigInt("500000")
	// Widen the spread so the slope survives truncation: (3700000-100000)/1000
	// = 3600 per second, 12960000 over the hour horizon.
	snapshot.Task.MinPrice = pkgtypes.MustParseBigInt("100000")
	snapshot.Task.MaxPrice = pkgtypes.MustParseBigInt("3700000")

	store := cache.NewStore()
	store.Put(snapshot)
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/api/tasks/1/deposit")
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload struct {
		TaskID           uint64           `json:"task_id"`
		CurrentDeposit   *pkgtypes.BigInt `json:"current_deposit"`
		ProjectedDeposit *pkgtypes.BigInt `json:"projected_deposit"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, uint64(1), payload.TaskID)
	assert.Equal(t, "500000", payload.CurrentDeposit.String())
	assert.Equal(t, "13460000", payload.ProjectedDeposit.String())
}

func TestGetTaskDeposit_Unavailable(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, "/api/tasks/1/deposit").Code)
}

func TestGetTaskDispute(t *testing.T) {
	store := cache.NewStore()
	store.Put(disputedSnapshot(1))
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/api/tasks/1/dispute")
	require.Equal(t, http.StatusOK, recorder.Code)

	var view DisputeView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.True(t, view.AppealOngoing)
	assert.Equal(t, markettypes.RulingTranslationApproved.String(), view.ExpectedFinalRuling)

	translator := view.Sides[markettypes.PartyTranslator]
	challenger := view.Sides[markettypes.PartyChallenger]
	assert.Equal(t, "1500", translator.TotalAppealCost.String())
	assert.Equal(t, "3000", challenger.TotalAppealCost.String())
	// 250s into the window: the loser's half-window is still open.
	assert.Equal(t, int64(750), translator.RemainingAppealSeconds)
	assert.Equal(t, int64(250), challenger.RemainingAppealSeconds)
}

func TestGetTaskDispute_NoDispute(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, "/api/tasks/1/dispute").Code)
}

func TestGetTaskDispute_InconsistentFunding(t *testing.T) {
	snapshot := disputedSnapshot(1)
	snapshot.Dispute.LatestRound.HasPaid[markettypes.PartyTranslator] = true
	snapshot.Dispute.LatestRound.HasPaid[markettypes.PartyChallenger] = true
	// Push the whole window into the past so the round has lapsed.
	snapshot.Dispute.AppealPeriod.Start = testNow.Add(-2000 * time.Second)
	snapshot.Dispute.AppealPeriod.End = testNow.Add(-1000 * time.Second)

	store := cache.NewStore()
	store.Put(snapshot)
	router := testRouter(testHandler(store))

	assert.Equal(t, http.StatusConflict, doRequest(t, router, "/api/tasks/1/dispute").Code)
}

func TestGetHealth(t *testing.T) {
	store := cache.NewStore()
	store.Put(biddableSnapshot(1))
	router := testRouter(testHandler(store))

	recorder := doRequest(t, router, "/health")
	require.Equal(t, http.StatusOK, recorder.Code)

	var payload struct {
		Status       string `json:"status"`
		TasksTracked int    `json:"tasks_tracked"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload.Status)
	assert.Equal(t, 1, payload.TasksTracked)
}
