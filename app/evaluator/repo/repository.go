package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"kiosko/app/evaluator/api"
	"kiosko/app/evaluator/cache"
	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

// Outcome tags the result of a submission. Saved-offline is a normal
// outcome that callers present as "se guardó localmente", never as an
// error.
type Outcome int

const (
	OutcomePersisted Outcome = iota
	OutcomeQueuedOffline
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePersisted:
		return "persisted"
	case OutcomeQueuedOffline:
		return "queued-offline"
	default:
		return "failed"
	}
}

// RemoteStore is the slice of the REST client the repository needs.
type RemoteStore interface {
	GetProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, project model.Project) error
}

// Repository decides, per operation, between the remote API and the
// local cache, and drains the offline queue when connectivity returns.
// One repository serves one logged-in evaluator.
type Repository struct {
	remote  RemoteStore
	cache   *cache.Cache
	online  func() bool
	session model.Session
}

func New(remote RemoteStore, c *cache.Cache, online func() bool, session model.Session) *Repository {
	return &Repository{
		remote:  remote,
		cache:   c,
		online:  online,
		session: session,
	}
}

func (r *Repository) Session() model.Session {
	return r.session
}

// GetProjects returns the freshest snapshot available. A failing remote
// never surfaces as an error while a cached snapshot exists; the
// fallback is silent.
func (r *Repository) GetProjects(ctx context.Context) ([]model.Project, error) {
	if r.online() {
		projects, err := r.remote.GetProjects(ctx)
		if err == nil {
			if err := r.cache.SaveProjects(projects); err != nil {
				log.Logger().WithContext(ctx).Warnf("cache snapshot: %s", err.Error())
			}
			return projects, nil
		}
		log.Logger().WithContext(ctx).Debugf("remote list failed, serving cache: %s", err.Error())
	}
	return r.cache.Projects()
}

// GetProjectsView is GetProjects personalized for the session's
// evaluator: each project shows that evaluator's own evaluated/pending
// state and score, not the stored cross-evaluator aggregate.
func (r *Repository) GetProjectsView(ctx context.Context) ([]model.Project, error) {
	projects, err := r.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.Project, len(projects))
	for i, p := range projects {
		views[i] = p.ViewFor(r.session)
	}
	return views, nil
}

// SubmitEvaluation applies the evaluator's record to the project (upsert
// plus aggregate recomputation) and persists the result: remotely when
// the network cooperates, otherwise locally with a queued replay entry.
// The returned project carries the post-mutation state for the UI.
func (r *Repository) SubmitEvaluation(ctx context.Context, project model.Project, ev model.Evaluation) (model.Project, Outcome, error) {
	project.ApplyEvaluation(ev)

	if r.online() {
		err := r.remote.UpdateProject(ctx, project)
		if err == nil {
			if err := r.cache.SaveProject(project); err != nil {
				log.Logger().WithContext(ctx).Warnf("cache update: %s", err.Error())
			}
			return project, OutcomePersisted, nil
		}
		var rejected *api.RejectedError
		if errors.As(err, &rejected) {
			// the server saw it and said no: surface, do not queue
			return project, OutcomeFailed, err
		}
		log.Logger().WithContext(ctx).Debugf("remote submit failed, queueing: %s", err.Error())
	}

	// Offline path: the cache is updated first so the UI shows the
	// project as evaluated immediately, then the full post-mutation
	// document is queued for replay.
	if err := r.cache.SaveProject(project); err != nil {
		return project, OutcomeFailed, err
	}
	payload, err := json.Marshal(project)
	if err != nil {
		return project, OutcomeFailed, errors.Wrap(err, "serialize pending project")
	}
	pending := cache.PendingEvaluation{
		ProjectID:    project.ID.Hex(),
		ProjectTitle: project.Title,
		Payload:      payload,
		QueuedAt:     time.Now().UTC(),
	}
	if err := r.cache.EnqueuePending(&pending); err != nil {
		return project, OutcomeFailed, err
	}
	return project, OutcomeQueuedOffline, nil
}

// SyncPendingEvaluations drains the offline queue in FIFO order. Each
// entry replays independently: a failure leaves that entry queued for
// the next pass and moves on. Replay is an idempotent full replace, so
// overlapping sync passes cannot corrupt remote state.
func (r *Repository) SyncPendingEvaluations(ctx context.Context) error {
	if !r.online() {
		return nil
	}
	pending, err := r.cache.PendingEvaluations()
	if err != nil {
		return err
	}
	for _, entry := range pending {
		var project model.Project
		if err := json.Unmarshal(entry.Payload, &project); err != nil {
			log.Logger().WithContext(ctx).Errorf("pending entry %d: corrupt payload: %s", entry.ID, err.Error())
			continue
		}
		if err := r.remote.UpdateProject(ctx, project); err != nil {
			log.Logger().WithContext(ctx).Warnf("pending entry %d: replay failed, keeping: %s", entry.ID, err.Error())
			continue
		}
		if err := r.cache.DeletePending(entry.ID); err != nil {
			log.Logger().WithContext(ctx).Errorf("pending entry %d: dequeue: %s", entry.ID, err.Error())
		}
	}
	return nil
}
