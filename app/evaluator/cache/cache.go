package cache

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

//go:embed schema.sql
var schemaSQL string

// Cache is the evaluator device's durable store: the last known project
// snapshot plus the offline submission queue. It is the only local state
// the app has, so it must open even on a flaky filesystem and tolerate
// partially damaged rows.
type Cache struct {
	db *sql.DB
}

// PendingEvaluation is one queued offline submission. Payload holds the
// fully mutated project document, ready to replay as a PUT.
type PendingEvaluation struct {
	ID           int64
	ProjectID    string
	ProjectTitle string
	Payload      []byte
	QueuedAt     time.Time
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cache")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "connect cache")
	}

	// one writer at a time keeps sqlite from throwing SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "exec %q", pragma)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveProjects overwrites the snapshot rows for every given project.
func (c *Cache) SaveProjects(projects []model.Project) error {
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	for _, p := range projects {
		if err := upsertProject(tx, p); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// SaveProject upserts a single project row.
func (c *Cache) SaveProject(p model.Project) error {
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	if err := upsertProject(tx, p); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func upsertProject(tx *sql.Tx, p model.Project) error {
	membersJSON := marshalBlob(p.Members)
	evaluationsJSON := marshalBlob(p.Evaluations)
	videosJSON := marshalBlob(p.Videos)
	documentsJSON := marshalBlob(p.Documents)

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO projects (
			id, nombre, cycle, informacion, image_url, status_text,
			is_pending, is_evaluated, score,
			problem_score, innovation_score, tech_score, impact_score,
			presentation_score, knowledge_score, results_score,
			members_json, evaluations_json, videos_json, documents_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.Hex(), p.Title, p.Cycle, p.Description, p.ImageURL, p.StatusText,
		boolToInt(p.IsPending), boolToInt(p.IsEvaluated), p.Score,
		p.ProblemScore, p.InnovationScore, p.TechScore, p.ImpactScore,
		p.PresentationScore, p.KnowledgeScore, p.ResultsScore,
		membersJSON, evaluationsJSON, videosJSON, documentsJSON,
	)
	return errors.Wrapf(err, "upsert project %s", p.ID.Hex())
}

// Projects returns the cached snapshot. A corrupt serialized blob in one
// row degrades that field to its empty value instead of failing the read,
// so one damaged project never hides the rest of the list.
func (c *Cache) Projects() ([]model.Project, error) {
	rows, err := c.db.Query(`
		SELECT id, nombre, cycle, informacion, image_url, status_text,
		       is_pending, is_evaluated, score,
		       problem_score, innovation_score, tech_score, impact_score,
		       presentation_score, knowledge_score, results_score,
		       members_json, evaluations_json, videos_json, documents_json
		FROM projects ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query projects")
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, errors.Wrap(rows.Err(), "iterate projects")
}

// Project loads one cached project by its hex id.
func (c *Cache) Project(id string) (model.Project, bool, error) {
	rows, err := c.db.Query(`
		SELECT id, nombre, cycle, informacion, image_url, status_text,
		       is_pending, is_evaluated, score,
		       problem_score, innovation_score, tech_score, impact_score,
		       presentation_score, knowledge_score, results_score,
		       members_json, evaluations_json, videos_json, documents_json
		FROM projects WHERE id = ?`, id)
	if err != nil {
		return model.Project{}, false, errors.Wrap(err, "query project")
	}
	defer rows.Close()

	if !rows.Next() {
		return model.Project{}, false, errors.Wrap(rows.Err(), "iterate project")
	}
	p, err := scanProject(rows)
	if err != nil {
		return model.Project{}, false, err
	}
	return p, true, nil
}

func scanProject(rows *sql.Rows) (model.Project, error) {
	var (
		p                      model.Project
		id                     string
		isPending, isEvaluated int
		membersJSON            string
		evaluationsJSON        string
		videosJSON             string
		documentsJSON          string
	)
	err := rows.Scan(
		&id, &p.Title, &p.Cycle, &p.Description, &p.ImageURL, &p.StatusText,
		&isPending, &isEvaluated, &p.Score,
		&p.ProblemScore, &p.InnovationScore, &p.TechScore, &p.ImpactScore,
		&p.PresentationScore, &p.KnowledgeScore, &p.ResultsScore,
		&membersJSON, &evaluationsJSON, &videosJSON, &documentsJSON,
	)
	if err != nil {
		return model.Project{}, errors.Wrap(err, "scan project")
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		p.ID = oid
	}
	p.IsPending = isPending != 0
	p.IsEvaluated = isEvaluated != 0
	p.Members = unmarshalBlob[string](id, "members", membersJSON)
	p.Evaluations = unmarshalBlob[model.Evaluation](id, "evaluations", evaluationsJSON)
	p.Videos = unmarshalBlob[model.Video](id, "videos", videosJSON)
	p.Documents = unmarshalBlob[model.Document](id, "documents", documentsJSON)
	return p, nil
}

// EnqueuePending appends a queue entry; the assigned sequence id is
// written back into p.
func (c *Cache) EnqueuePending(p *PendingEvaluation) error {
	result, err := c.db.Exec(`
		INSERT INTO pending_evaluations (project_id, project_title, payload, queued_at)
		VALUES (?, ?, ?, ?)`,
		p.ProjectID, p.ProjectTitle, string(p.Payload), p.QueuedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrap(err, "enqueue pending evaluation")
	}
	p.ID, err = result.LastInsertId()
	return errors.Wrap(err, "pending sequence id")
}

// PendingEvaluations returns the queue in FIFO order.
func (c *Cache) PendingEvaluations() ([]PendingEvaluation, error) {
	rows, err := c.db.Query(`
		SELECT id, project_id, project_title, payload, queued_at
		FROM pending_evaluations ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query pending evaluations")
	}
	defer rows.Close()

	pending := []PendingEvaluation{}
	for rows.Next() {
		var (
			p        PendingEvaluation
			payload  string
			queuedAt string
		)
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.ProjectTitle, &payload, &queuedAt); err != nil {
			return nil, errors.Wrap(err, "scan pending evaluation")
		}
		p.Payload = []byte(payload)
		if ts, err := time.Parse(time.RFC3339Nano, queuedAt); err == nil {
			p.QueuedAt = ts
		}
		pending = append(pending, p)
	}
	return pending, errors.Wrap(rows.Err(), "iterate pending evaluations")
}

// DeletePending removes a replayed queue entry.
func (c *Cache) DeletePending(id int64) error {
	_, err := c.db.Exec(`DELETE FROM pending_evaluations WHERE id = ?`, id)
	return errors.Wrapf(err, "delete pending evaluation %d", id)
}

func marshalBlob(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalBlob[T any](projectID, field, blob string) []T {
	out := []T{}
	if blob == "" {
		return out
	}
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		log.Logger().Warnf("cache: project %s has corrupt %s blob, using empty list: %s", projectID, field, err.Error())
		return []T{}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
