package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login matches username-or-email plus password. Credentials are stored
// and compared in plaintext, as the existing clients expect. A matching
// but unverified account fails with ErrNotVerified, which callers must
// surface distinctly from bad credentials.
func (svc *KioskoService) Login(ctx context.Context, req LoginReq) (model.User, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"username": req.Username},
			bson.M{"email": req.Username},
		},
		"password": req.Password,
	}
	var user model.User
	err := svc.CollectionUser.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return model.User{}, ErrBadCredentials
	}
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.User{}, err
	}
	if !user.IsVerified {
		return model.User{}, ErrNotVerified
	}
	return user, nil
}

// Register creates an unverified evaluator account. Email is the
// uniqueness key; role and verification flag are forced server-side.
func (svc *KioskoService) Register(ctx context.Context, req model.User) (model.User, error) {
	count, err := svc.CollectionUser.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.User{}, err
	}
	if count > 0 {
		return model.User{}, ErrEmailTaken
	}
	req.ID = primitive.NewObjectID()
	req.IsVerified = false
	req.Role = model.RoleEvaluator
	if _, err := svc.CollectionUser.InsertOne(ctx, &req); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return model.User{}, err
	}
	return req, nil
}

func (svc *KioskoService) GetUsers(ctx context.Context) ([]model.User, int, error) {
	cursor, err := svc.CollectionUser.Find(ctx, bson.M{})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, 0, err
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return nil, 0, err
	}
	return users, len(users), nil
}

// UpdateUser updates the self-editable profile fields only; username,
// password, role and the verification flag are not touched here.
func (svc *KioskoService) UpdateUser(ctx context.Context, req model.User) error {
	filter := bson.D{{Key: "_id", Value: req.ID}}
	update := bson.M{"$set": bson.M{
		"fullName":        req.FullName,
		"department":      req.Department,
		"pronouns":        req.Pronouns,
		"profileImageUrl": req.ProfileImageURL,
	}}
	if _, err := svc.CollectionUser.UpdateOne(ctx, filter, update); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (svc *KioskoService) UpdateUserProfileImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.M{"$set": bson.M{"profileImageUrl": imageURL}}
	if _, err := svc.CollectionUser.UpdateOne(ctx, filter, update); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

// VerifyUser toggles the manual admin verification flag.
func (svc *KioskoService) VerifyUser(ctx context.Context, id primitive.ObjectID) error {
	var user model.User
	err := svc.CollectionUser.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	filter := bson.D{{Key: "_id", Value: id}}
	update := bson.M{"$set": bson.M{"isVerified": !user.IsVerified}}
	if _, err := svc.CollectionUser.UpdateOne(ctx, filter, update); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}

func (svc *KioskoService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if _, err := svc.CollectionUser.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	return nil
}
