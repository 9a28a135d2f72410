package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is the showcase project document. The spanish bson/json names
// (nombre, informacion, integrantes, ...) are the stable wire contract
// shared with the admin panel and the mobile apps; do not rename them.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"nombre" json:"nombre"`
	Cycle       string             `bson:"cycle" json:"cycle"`
	Description string             `bson:"informacion" json:"informacion"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Members     []string           `bson:"integrantes" json:"integrantes"`
	StatusText  string             `bson:"statusText" json:"statusText"`
	IsPending   bool               `bson:"isPending" json:"isPending"`
	IsEvaluated bool               `bson:"isEvaluated" json:"isEvaluated"`

	// Score and the seven criterion fields hold the cross-evaluator
	// averages maintained by ApplyEvaluation.
	Score             string  `bson:"score" json:"score"`
	ProblemScore      float64 `bson:"problemScore" json:"problemScore"`
	InnovationScore   float64 `bson:"innovationScore" json:"innovationScore"`
	TechScore         float64 `bson:"techScore" json:"techScore"`
	ImpactScore       float64 `bson:"impactScore" json:"impactScore"`
	PresentationScore float64 `bson:"presentationScore" json:"presentationScore"`
	KnowledgeScore    float64 `bson:"knowledgeScore" json:"knowledgeScore"`
	ResultsScore      float64 `bson:"resultsScore" json:"resultsScore"`

	Evaluations []Evaluation `bson:"evaluations" json:"evaluations"`
	Videos      []Video      `bson:"videos" json:"videos"`
	Documents   []Document   `bson:"documentos" json:"documentos"`
}

// Evaluation is one evaluator's scored rubric for one project. It lives
// only inside its project's evaluation list.
type Evaluation struct {
	EvaluatorID       string    `bson:"evaluatorId" json:"evaluatorId"`
	EvaluatorName     string    `bson:"evaluatorName" json:"evaluatorName"`
	ProblemScore      float64   `bson:"problemScore" json:"problemScore"`
	InnovationScore   float64   `bson:"innovationScore" json:"innovationScore"`
	TechScore         float64   `bson:"techScore" json:"techScore"`
	ImpactScore       float64   `bson:"impactScore" json:"impactScore"`
	PresentationScore float64   `bson:"presentationScore" json:"presentationScore"`
	KnowledgeScore    float64   `bson:"knowledgeScore" json:"knowledgeScore"`
	ResultsScore      float64   `bson:"resultsScore" json:"resultsScore"`
	TotalScore        float64   `bson:"totalScore" json:"totalScore"`
	Comments          string    `bson:"comments" json:"comments"`
	Timestamp         time.Time `bson:"timestamp" json:"timestamp"`
}

type Video struct {
	URL         string `bson:"url" json:"url"`
	Title       string `bson:"titulo" json:"titulo"`
	Description string `bson:"descripcion" json:"descripcion"`
}

type Document struct {
	URL  string `bson:"url" json:"url"`
	Name string `bson:"nombre" json:"nombre"`
	Type string `bson:"tipo" json:"tipo"`
}

const (
	StatusPending   = "Pendiente de Evaluación"
	StatusEvaluated = "Evaluado"
)

// RestoreStatus derives the display status text from the evaluated flag.
func (p *Project) RestoreStatus() {
	if p.IsEvaluated {
		p.StatusText = StatusEvaluated
	} else {
		p.StatusText = StatusPending
	}
}
