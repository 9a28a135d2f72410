package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleEvaluator = "Evaluador"

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username        string             `bson:"username" json:"username"`
	Password        string             `bson:"password" json:"password,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Role            string             `bson:"role" json:"role"`
	IsVerified      bool               `bson:"isVerified" json:"isVerified"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Department      string             `bson:"department" json:"department"`
	ProfileImageURL string             `bson:"profileImageUrl" json:"profileImageUrl"`
	Pronouns        string             `bson:"pronouns" json:"pronouns"`
}
