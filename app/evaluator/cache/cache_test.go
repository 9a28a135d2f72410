package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kiosko/app/kiosko/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "kiosko_offline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleProject(title string) model.Project {
	return model.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Cycle:       "Ciclo 2025-B",
		Description: "descripción",
		Members:     []string{"21310243", "21310100"},
		StatusText:  model.StatusPending,
		IsPending:   true,
		Evaluations: []model.Evaluation{},
		Videos:      []model.Video{{URL: "https://example.com/v", Title: "demo"}},
		Documents:   []model.Document{{URL: "https://example.com/d", Name: "reporte", Type: "PDF"}},
	}
}

func TestSaveProjectsRoundTrip(t *testing.T) {
	c := openTestCache(t)

	p := sampleProject("Sistema de Gestión de Residuos")
	p.ApplyEvaluation(model.NewEvaluation(
		model.Session{UserID: "64f0a1", FullName: "Juan Pérez"},
		model.Rubric{Problem: 8, Innovation: 9, Tech: 7, Impact: 6, Presentation: 8, Knowledge: 7, Results: 9},
		time.Now(),
	))
	require.NoError(t, c.SaveProjects([]model.Project{p}))

	got, err := c.Projects()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p.ID, got[0].ID)
	assert.Equal(t, p.Title, got[0].Title)
	assert.Equal(t, p.Members, got[0].Members)
	assert.Equal(t, p.Score, got[0].Score)
	assert.True(t, got[0].IsEvaluated)
	require.Len(t, got[0].Evaluations, 1)
	assert.Equal(t, "64f0a1", got[0].Evaluations[0].EvaluatorID)
	assert.Equal(t, 54.0, got[0].Evaluations[0].TotalScore)
	require.Len(t, got[0].Videos, 1)
	require.Len(t, got[0].Documents, 1)
}

func TestSaveProjectOverwritesById(t *testing.T) {
	c := openTestCache(t)

	p := sampleProject("Plataforma E-Learning")
	require.NoError(t, c.SaveProject(p))
	p.Title = "Plataforma E-Learning v2"
	p.IsPending = false
	p.IsEvaluated = true
	require.NoError(t, c.SaveProject(p))

	got, err := c.Projects()
	require.NoError(t, err)
	require.Len(t, got, 1, "same id must overwrite, not duplicate")
	assert.Equal(t, "Plataforma E-Learning v2", got[0].Title)
	assert.True(t, got[0].IsEvaluated)
}

func TestProjectLookup(t *testing.T) {
	c := openTestCache(t)

	p := sampleProject("Dashboard Financiero")
	require.NoError(t, c.SaveProject(p))

	got, ok, err := c.Project(p.ID.Hex())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.Title, got.Title)

	_, ok, err = c.Project(primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptBlobDegradesToEmptyList(t *testing.T) {
	c := openTestCache(t)

	corrupt := sampleProject("Proyecto Dañado")
	corrupt.ApplyEvaluation(model.NewEvaluation(
		model.Session{UserID: "64f0a1", FullName: "Juan Pérez"},
		model.Rubric{Problem: 5, Innovation: 5, Tech: 5, Impact: 5, Presentation: 5, Knowledge: 5, Results: 5},
		time.Now(),
	))
	valid := sampleProject("Proyecto Sano")
	require.NoError(t, c.SaveProjects([]model.Project{corrupt, valid}))

	_, err := c.db.Exec(`UPDATE projects SET evaluations_json = '{definitely not json' WHERE id = ?`, corrupt.ID.Hex())
	require.NoError(t, err)

	got, err := c.Projects()
	require.NoError(t, err, "one damaged row must not fail the batch")
	require.Len(t, got, 2)
	for _, p := range got {
		switch p.ID {
		case corrupt.ID:
			assert.Empty(t, p.Evaluations, "corrupt blob degrades to empty list")
			assert.Equal(t, corrupt.Title, p.Title, "scalar fields survive")
		case valid.ID:
			assert.Equal(t, valid.Title, p.Title)
		default:
			t.Fatalf("unexpected project %s", p.ID.Hex())
		}
	}
}

func TestPendingQueueFIFO(t *testing.T) {
	c := openTestCache(t)

	first := PendingEvaluation{ProjectID: "a1", ProjectTitle: "Primero", Payload: []byte(`{"nombre":"Primero"}`), QueuedAt: time.Now()}
	second := PendingEvaluation{ProjectID: "b2", ProjectTitle: "Segundo", Payload: []byte(`{"nombre":"Segundo"}`), QueuedAt: time.Now()}
	require.NoError(t, c.EnqueuePending(&first))
	require.NoError(t, c.EnqueuePending(&second))
	assert.Less(t, first.ID, second.ID)

	pending, err := c.PendingEvaluations()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a1", pending[0].ProjectID)
	assert.Equal(t, "b2", pending[1].ProjectID)
	assert.Equal(t, []byte(`{"nombre":"Primero"}`), pending[0].Payload)
	assert.False(t, pending[0].QueuedAt.IsZero())

	require.NoError(t, c.DeletePending(first.ID))
	pending, err = c.PendingEvaluations()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b2", pending[0].ProjectID)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosko_offline.db")
	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.SaveProject(sampleProject("Persistente")))
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()
	got, err := c2.Projects()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
