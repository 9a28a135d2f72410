package repo

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kiosko/app/evaluator/api"
	"kiosko/app/evaluator/cache"
	"kiosko/app/kiosko/model"
)

var (
	sessionE1 = model.Session{UserID: "64f0a1", FullName: "Juan Pérez"}
	sessionE2 = model.Session{UserID: "64f0a2", FullName: "Ana García"}
)

// fakeRemote is an in-memory stand-in for the REST API: a full-replace
// document store keyed by project id, with switchable failure modes.
type fakeRemote struct {
	mu       sync.Mutex
	projects map[string]model.Project
	failList bool
	failPut  map[string]error
	puts     int
}

func newFakeRemote(projects ...model.Project) *fakeRemote {
	f := &fakeRemote{
		projects: make(map[string]model.Project),
		failPut:  make(map[string]error),
	}
	for _, p := range projects {
		f.projects[p.ID.Hex()] = p
	}
	return f
}

func (f *fakeRemote) GetProjects(ctx context.Context) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("connection refused")
	}
	out := make([]model.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRemote) UpdateProject(ctx context.Context, p model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failPut[p.ID.Hex()]; err != nil {
		return err
	}
	f.puts++
	f.projects[p.ID.Hex()] = p
	return nil
}

func (f *fakeRemote) project(id string) model.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[id]
}

func testCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "offline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func pendingProject(title string) model.Project {
	return model.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Cycle:       "Ciclo 2025-B",
		StatusText:  model.StatusPending,
		IsPending:   true,
		Members:     []string{"21310243"},
		Evaluations: []model.Evaluation{},
	}
}

func fullRubric(v float64) model.Rubric {
	return model.Rubric{Problem: v, Innovation: v, Tech: v, Impact: v, Presentation: v, Knowledge: v, Results: v}
}

func online() bool  { return true }
func offline() bool { return false }

func TestGetProjectsCachesRemoteSnapshot(t *testing.T) {
	p := pendingProject("Sistema de Riego")
	remote := newFakeRemote(p)
	c := testCache(t)
	r := New(remote, c, online, sessionE1)

	got, err := r.GetProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	cached, err := c.Projects()
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, p.ID, cached[0].ID)
}

func TestGetProjectsFallsBackToCacheSilently(t *testing.T) {
	p := pendingProject("Plataforma E-Learning")
	remote := newFakeRemote(p)
	c := testCache(t)
	r := New(remote, c, online, sessionE1)

	_, err := r.GetProjects(context.Background())
	require.NoError(t, err)

	// remote starts failing: the cached snapshot is served with no error
	remote.failList = true
	got, err := r.GetProjects(context.Background())
	require.NoError(t, err, "remote failure must not surface while a snapshot exists")
	require.Len(t, got, 1)
	assert.Equal(t, p.Title, got[0].Title)
}

func TestGetProjectsOfflineUsesCache(t *testing.T) {
	p := pendingProject("Dashboard Financiero")
	c := testCache(t)
	require.NoError(t, c.SaveProject(p))
	r := New(newFakeRemote(), c, offline, sessionE1)

	got, err := r.GetProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSubmitEvaluationPersistsRemotely(t *testing.T) {
	p := pendingProject("Sistema de Residuos")
	remote := newFakeRemote(p)
	c := testCache(t)
	r := New(remote, c, online, sessionE1)

	ev := model.NewEvaluation(sessionE1, fullRubric(8), time.Now())
	got, outcome, err := r.SubmitEvaluation(context.Background(), p, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomePersisted, outcome)
	assert.True(t, got.IsEvaluated)

	stored := remote.project(p.ID.Hex())
	require.Len(t, stored.Evaluations, 1)
	assert.Equal(t, "56", stored.Score)
	assert.Equal(t, 1, remote.puts)

	cached, _, err := c.Project(p.ID.Hex())
	require.NoError(t, err)
	assert.True(t, cached.IsEvaluated)

	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubmitEvaluationOfflineQueues(t *testing.T) {
	p := pendingProject("Automatización de Riego")
	remote := newFakeRemote(p)
	c := testCache(t)
	r := New(remote, c, offline, sessionE1)

	ev := model.NewEvaluation(sessionE1, fullRubric(9), time.Now())
	got, outcome, err := r.SubmitEvaluation(context.Background(), p, ev)
	require.NoError(t, err, "queued-offline is an outcome, not an error")
	assert.Equal(t, OutcomeQueuedOffline, outcome)
	assert.True(t, got.IsEvaluated)

	// (a) the local cache already shows the project as evaluated
	cached, _, err := c.Project(p.ID.Hex())
	require.NoError(t, err)
	assert.True(t, cached.IsEvaluated)
	assert.False(t, cached.IsPending)

	// (b) exactly one queue entry holding a re-parseable full snapshot
	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID.Hex(), pending[0].ProjectID)
	assert.Equal(t, p.Title, pending[0].ProjectTitle)
	var snapshot model.Project
	require.NoError(t, json.Unmarshal(pending[0].Payload, &snapshot))
	assert.Equal(t, p.ID, snapshot.ID)
	require.Len(t, snapshot.Evaluations, 1)
	assert.Equal(t, sessionE1.UserID, snapshot.Evaluations[0].EvaluatorID)

	// nothing reached the remote
	assert.Zero(t, remote.puts)
	assert.Empty(t, remote.project(p.ID.Hex()).Evaluations)
}

func TestSubmitEvaluationRejectedIsNotQueued(t *testing.T) {
	p := pendingProject("Proyecto Inválido")
	remote := newFakeRemote(p)
	remote.failPut[p.ID.Hex()] = &api.RejectedError{Status: 400, Message: "ID mismatch"}
	c := testCache(t)
	r := New(remote, c, online, sessionE1)

	_, outcome, err := r.SubmitEvaluation(context.Background(), p, model.NewEvaluation(sessionE1, fullRubric(7), time.Now()))
	assert.Equal(t, OutcomeFailed, outcome)
	require.Error(t, err)

	pending, pErr := c.PendingEvaluations()
	require.NoError(t, pErr)
	assert.Empty(t, pending, "a server rejection must not be retried from the queue")
}

func TestSubmitEvaluationTransportErrorQueues(t *testing.T) {
	p := pendingProject("Proyecto Remoto Caído")
	remote := newFakeRemote(p)
	remote.failPut[p.ID.Hex()] = errors.New("dial tcp: i/o timeout")
	c := testCache(t)
	r := New(remote, c, online, sessionE1)

	_, outcome, err := r.SubmitEvaluation(context.Background(), p, model.NewEvaluation(sessionE1, fullRubric(7), time.Now()))
	require.NoError(t, err)
	assert.Equal(t, OutcomeQueuedOffline, outcome)

	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSyncReplayIsIdempotent(t *testing.T) {
	p := pendingProject("Local Space")
	remote := newFakeRemote(p)
	c := testCache(t)

	offlineRepo := New(remote, c, offline, sessionE1)
	_, outcome, err := offlineRepo.SubmitEvaluation(context.Background(), p, model.NewEvaluation(sessionE1, fullRubric(8), time.Now()))
	require.NoError(t, err)
	require.Equal(t, OutcomeQueuedOffline, outcome)

	r := New(remote, c, online, sessionE1)
	require.NoError(t, r.SyncPendingEvaluations(context.Background()))
	require.NoError(t, r.SyncPendingEvaluations(context.Background()))

	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	assert.Empty(t, pending, "replayed entries leave the queue")

	stored := remote.project(p.ID.Hex())
	require.Len(t, stored.Evaluations, 1, "full-replace replay cannot duplicate records")
	assert.Equal(t, sessionE1.UserID, stored.Evaluations[0].EvaluatorID)
}

func TestSyncOneFailureDoesNotBlockLaterEntries(t *testing.T) {
	pBad := pendingProject("Entrada Atascada")
	pGood := pendingProject("Entrada Sana")
	remote := newFakeRemote(pBad, pGood)
	c := testCache(t)

	offlineRepo := New(remote, c, offline, sessionE1)
	_, _, err := offlineRepo.SubmitEvaluation(context.Background(), pBad, model.NewEvaluation(sessionE1, fullRubric(6), time.Now()))
	require.NoError(t, err)
	_, _, err = offlineRepo.SubmitEvaluation(context.Background(), pGood, model.NewEvaluation(sessionE1, fullRubric(9), time.Now()))
	require.NoError(t, err)

	remote.failPut[pBad.ID.Hex()] = errors.New("dial tcp: connection reset")
	r := New(remote, c, online, sessionE1)
	require.NoError(t, r.SyncPendingEvaluations(context.Background()))

	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	require.Len(t, pending, 1, "only the failed entry stays queued")
	assert.Equal(t, pBad.ID.Hex(), pending[0].ProjectID)
	require.Len(t, remote.project(pGood.ID.Hex()).Evaluations, 1)

	// next pass, remote recovered: the stuck entry drains too
	delete(remote.failPut, pBad.ID.Hex())
	require.NoError(t, r.SyncPendingEvaluations(context.Background()))
	pending, err = c.PendingEvaluations()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSyncOfflineIsNoop(t *testing.T) {
	p := pendingProject("Sin Red")
	remote := newFakeRemote(p)
	c := testCache(t)

	r := New(remote, c, offline, sessionE1)
	_, _, err := r.SubmitEvaluation(context.Background(), p, model.NewEvaluation(sessionE1, fullRubric(5), time.Now()))
	require.NoError(t, err)

	require.NoError(t, r.SyncPendingEvaluations(context.Background()))
	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	assert.Len(t, pending, 1, "nothing drains while unreachable")
}

func TestGetProjectsViewPersonalizes(t *testing.T) {
	p := pendingProject("Proyecto Compartido")
	p.ApplyEvaluation(model.NewEvaluation(sessionE2, fullRubric(4), time.Now()))
	remote := newFakeRemote(p)
	c := testCache(t)

	r := New(remote, c, online, sessionE1)
	views, err := r.GetProjectsView(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsPending, "someone else's evaluation does not count as mine")
	assert.Empty(t, views[0].Score)

	asE2 := New(remote, c, online, sessionE2)
	views, err = asE2.GetProjectsView(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsEvaluated)
	assert.Equal(t, "28", views[0].Score)
}

// TestConcurrentSubmitLastWriterWins demonstrates the accepted race: two
// evaluators read the same project, both submit, and the slower PUT
// overwrites the faster one's record because the remote write is an
// unconditional full replace with no concurrency token.
func TestConcurrentSubmitLastWriterWins(t *testing.T) {
	p := pendingProject("Proyecto Disputado")
	remote := newFakeRemote(p)

	r1 := New(remote, testCache(t), online, sessionE1)
	r2 := New(remote, testCache(t), online, sessionE2)

	// both read the pristine project before either writes
	stale := p

	_, outcome, err := r1.SubmitEvaluation(context.Background(), stale, model.NewEvaluation(sessionE1, fullRubric(9), time.Now()))
	require.NoError(t, err)
	require.Equal(t, OutcomePersisted, outcome)

	_, outcome, err = r2.SubmitEvaluation(context.Background(), stale, model.NewEvaluation(sessionE2, fullRubric(3), time.Now()))
	require.NoError(t, err)
	require.Equal(t, OutcomePersisted, outcome)

	stored := remote.project(p.ID.Hex())
	require.Len(t, stored.Evaluations, 1, "the first evaluator's record is lost")
	assert.Equal(t, sessionE2.UserID, stored.Evaluations[0].EvaluatorID)
}
