package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

const activityFeedLimit = 20

func (svc *KioskoService) GetActivitiesByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	cursor, err := svc.CollectionActivity.Find(
		ctx,
		bson.M{"userId": userID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(activityFeedLimit),
	)
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, err
	}
	activities := []model.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, err
	}
	return activities, nil
}

func (svc *KioskoService) CreateActivity(ctx context.Context, req model.Activity) (model.Activity, error) {
	req.ID = primitive.NewObjectID()
	req.Timestamp = time.Now().UTC()
	if _, err := svc.CollectionActivity.InsertOne(ctx, &req); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.Activity{}, err
	}
	return req, nil
}
