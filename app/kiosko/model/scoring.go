package model

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Session identifies the evaluator an operation runs on behalf of. It is
// created at login and passed explicitly; there is no ambient current-user
// state.
type Session struct {
	UserID   string
	FullName string
}

// Rubric carries one evaluator's raw 0-10 inputs for the seven criteria.
type Rubric struct {
	Problem      float64
	Innovation   float64
	Tech         float64
	Impact       float64
	Presentation float64
	Knowledge    float64
	Results      float64
	Comments     string
}

// NewEvaluation builds the evaluation record for a submitted rubric.
// Each criterion is rounded to the nearest integer at entry time, the
// total is the plain sum of the seven rounded fields.
func NewEvaluation(s Session, r Rubric, now time.Time) Evaluation {
	ev := Evaluation{
		EvaluatorID:       s.UserID,
		EvaluatorName:     s.FullName,
		ProblemScore:      math.Round(r.Problem),
		InnovationScore:   math.Round(r.Innovation),
		TechScore:         math.Round(r.Tech),
		ImpactScore:       math.Round(r.Impact),
		PresentationScore: math.Round(r.Presentation),
		KnowledgeScore:    math.Round(r.Knowledge),
		ResultsScore:      math.Round(r.Results),
		Comments:          r.Comments,
		Timestamp:         now.UTC(),
	}
	ev.TotalScore = ev.ProblemScore + ev.InnovationScore + ev.TechScore +
		ev.ImpactScore + ev.PresentationScore + ev.KnowledgeScore + ev.ResultsScore
	return ev
}

// ApplyEvaluation upserts ev into the project's evaluation list (at most
// one record per evaluator; resubmission fully supersedes the old record
// in place) and restores the aggregate invariant: every criterion field
// and Score hold the per-field mean across all records, rounded to one
// decimal place.
func (p *Project) ApplyEvaluation(ev Evaluation) {
	byEvaluator := make(map[string]Evaluation, len(p.Evaluations)+1)
	order := make([]string, 0, len(p.Evaluations)+1)
	for _, e := range p.Evaluations {
		if _, seen := byEvaluator[e.EvaluatorID]; !seen {
			order = append(order, e.EvaluatorID)
		}
		byEvaluator[e.EvaluatorID] = e
	}
	if _, seen := byEvaluator[ev.EvaluatorID]; !seen {
		order = append(order, ev.EvaluatorID)
	}
	byEvaluator[ev.EvaluatorID] = ev

	evs := make([]Evaluation, 0, len(order))
	for _, id := range order {
		evs = append(evs, byEvaluator[id])
	}
	p.Evaluations = evs

	p.recomputeAggregates()
	p.IsEvaluated = true
	p.IsPending = false
	p.RestoreStatus()
}

func (p *Project) recomputeAggregates() {
	n := float64(len(p.Evaluations))
	if n == 0 {
		p.ProblemScore = 0
		p.InnovationScore = 0
		p.TechScore = 0
		p.ImpactScore = 0
		p.PresentationScore = 0
		p.KnowledgeScore = 0
		p.ResultsScore = 0
		p.Score = ""
		return
	}
	var problem, innovation, tech, impact, presentation, knowledge, results, total float64
	for _, e := range p.Evaluations {
		problem += e.ProblemScore
		innovation += e.InnovationScore
		tech += e.TechScore
		impact += e.ImpactScore
		presentation += e.PresentationScore
		knowledge += e.KnowledgeScore
		results += e.ResultsScore
		total += e.TotalScore
	}
	p.ProblemScore = round1(problem / n)
	p.InnovationScore = round1(innovation / n)
	p.TechScore = round1(tech / n)
	p.ImpactScore = round1(impact / n)
	p.PresentationScore = round1(presentation / n)
	p.KnowledgeScore = round1(knowledge / n)
	p.ResultsScore = round1(results / n)
	p.Score = FormatScore(round1(total / n))
}

// ViewFor personalizes the project for one evaluator: if the evaluator
// has their own record the project shows evaluated with that record's
// total, otherwise pending, regardless of other evaluators' submissions.
// The stored aggregates are untouched; leaderboards must not use views.
func (p Project) ViewFor(s Session) Project {
	for _, ev := range p.Evaluations {
		if ev.EvaluatorID == s.UserID {
			p.IsEvaluated = true
			p.IsPending = false
			p.Score = FormatScore(ev.TotalScore)
			p.RestoreStatus()
			return p
		}
	}
	p.IsEvaluated = false
	p.IsPending = true
	p.Score = ""
	p.RestoreStatus()
	return p
}

// ScoreValue parses the textual score for sorting; unparseable is zero.
func (p Project) ScoreValue() float64 {
	v, err := strconv.ParseFloat(p.Score, 64)
	if err != nil {
		return 0
	}
	return v
}

type RankedProject struct {
	Project Project `json:"project"`
	Rank    int     `json:"rank"`
}

// OnPodium reports whether the entry gets a top-3 rank badge. This is a
// display partition only.
func (r RankedProject) OnPodium() bool {
	return r.Rank <= 3
}

// Rank orders evaluated projects by descending aggregate score. Ties keep
// their input order.
func Rank(projects []Project) []RankedProject {
	evaluated := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.IsEvaluated {
			evaluated = append(evaluated, p)
		}
	}
	sort.SliceStable(evaluated, func(i, j int) bool {
		return evaluated[i].ScoreValue() > evaluated[j].ScoreValue()
	})
	ranked := make([]RankedProject, len(evaluated))
	for i, p := range evaluated {
		ranked[i] = RankedProject{Project: p, Rank: i + 1}
	}
	return ranked
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatScore renders an aggregate score the way the clients expect:
// a plain decimal string with no trailing zeros ("18", "18.3").
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
