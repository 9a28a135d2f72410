package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types recorded by the clients.
const (
	ActivityEvaluationCompleted = "evaluation_completed"
	ActivityCommentAdded        = "comment_added"
)

type Activity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"userId" json:"userId"`
	Type         string             `bson:"type" json:"type"`
	ProjectTitle string             `bson:"projectTitle" json:"projectTitle"`
	Description  string             `bson:"description" json:"description"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
	Icon         string             `bson:"icon" json:"icon"`
	IconColor    string             `bson:"iconColor" json:"iconColor"`
}
