package service

import (
	"github.com/minio/minio-go/v7"
	"go.mongodb.org/mongo-driver/mongo"

	ext "kiosko/config"
)

type KioskoService struct {
	MongodbClient *mongo.Client
	MongodbDB     *mongo.Database

	CollectionProject  *mongo.Collection
	CollectionUser     *mongo.Collection
	CollectionActivity *mongo.Collection

	MinIOClient *minio.Client
}

func NewKioskoService(mongodbClient *mongo.Client, minioClient *minio.Client) *KioskoService {
	cfg := ext.Conf.Mongodb
	db := mongodbClient.Database(cfg.Database)
	return &KioskoService{
		MongodbClient:      mongodbClient,
		MongodbDB:          db,
		CollectionProject:  db.Collection(cfg.ProjectCollection),
		CollectionUser:     db.Collection(cfg.UserCollection),
		CollectionActivity: db.Collection(cfg.ActivityCollection),
		MinIOClient:        minioClient,
	}
}
