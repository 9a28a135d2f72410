package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

func (svc *KioskoService) GetProjects(ctx context.Context) ([]model.Project, error) {
	cursor, err := svc.CollectionProject.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}),
	)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, err
	}
	projects := []model.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return projects, nil
}

func (svc *KioskoService) GetProject(ctx context.Context, id primitive.ObjectID) (model.Project, error) {
	var project model.Project
	err := svc.CollectionProject.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.Project{}, err
	}
	return project, nil
}

func (svc *KioskoService) CreateProject(ctx context.Context, req model.Project) (model.Project, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if !req.IsEvaluated {
		req.IsPending = true
	}
	req.RestoreStatus()
	if req.Members == nil {
		req.Members = []string{}
	}
	if req.Evaluations == nil {
		req.Evaluations = []model.Evaluation{}
	}
	_, err := svc.CollectionProject.InsertOne(ctx, &req)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.Project{}, err
	}
	return req, nil
}

// UpdateProject is an unconditional full-document replace by id. Both the
// admin edit path and the evaluators' submission replay use it; replaying
// the same document twice is a no-op, which is what makes unsynchronized
// queue drains safe.
func (svc *KioskoService) UpdateProject(ctx context.Context, req model.Project) error {
	_, err := svc.CollectionProject.ReplaceOne(ctx, bson.D{{Key: "_id", Value: req.ID}}, &req)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

type DeleteProjectResp struct {
	DeletedCount int64 `json:"deletedCount"`
}

func (svc *KioskoService) DeleteProject(ctx context.Context, id primitive.ObjectID) (DeleteProjectResp, error) {
	result, err := svc.CollectionProject.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return DeleteProjectResp{}, err
	}
	return DeleteProjectResp{DeletedCount: result.DeletedCount}, nil
}

// Ranking returns the leaderboard over the stored aggregate scores.
func (svc *KioskoService) Ranking(ctx context.Context) ([]model.RankedProject, error) {
	projects, err := svc.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	return model.Rank(projects), nil
}
