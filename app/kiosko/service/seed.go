package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"kiosko/app/kiosko/model"
	"kiosko/common/log"
)

// Seed inserts demo documents into empty collections so a fresh
// deployment has something to show. Non-empty collections are untouched.
func (svc *KioskoService) Seed(ctx context.Context) error {
	count, err := svc.CollectionProject.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	if count == 0 {
		projects := []interface{}{
			&model.Project{
				ID:          primitive.NewObjectID(),
				Title:       "Sistema de Gestión de Residuos",
				Cycle:       "Ciclo 2025-B",
				Description: "Aplicación móvil para optimizar la recolección de basura en el campus.",
				StatusText:  model.StatusPending,
				IsPending:   true,
				Members:     []string{"21310243", "21310100"},
				Evaluations: []model.Evaluation{},
			},
			&model.Project{
				ID:          primitive.NewObjectID(),
				Title:       "Plataforma E-Learning",
				Cycle:       "Ciclo 2025-A",
				Description: "Sistema web para cursos en línea con seguimiento de progreso.",
				StatusText:  model.StatusPending,
				IsPending:   true,
				Members:     []string{"21310300"},
				Evaluations: []model.Evaluation{},
			},
		}
		if _, err := svc.CollectionProject.InsertMany(ctx, projects); err != nil {
			log.Logger().WithContext(ctx).Error(err.Error())
			return err
		}
	}

	userCount, err := svc.CollectionUser.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Logger().WithContext(ctx).Error(err.Error())
		return err
	}
	if userCount == 0 {
		users := []interface{}{
			&model.User{
				ID:         primitive.NewObjectID(),
				Username:   "maestro1",
				Password:   "admin",
				Email:      "maestro1@test.com",
				FullName:   "Juan Pérez",
				Department: "Ingeniería",
				Role:       model.RoleEvaluator,
				IsVerified: true,
			},
			&model.User{
				ID:         primitive.NewObjectID(),
				Username:   "maestro2",
				Password:   "admin",
				Email:      "maestro2@test.com",
				FullName:   "Ana García",
				Department: "Ciencias",
				Role:       model.RoleEvaluator,
				IsVerified: false,
			},
		}
		if _, err := svc.CollectionUser.InsertMany(ctx, users); err != nil {
			log.Logger().WithContext(ctx).Error(err.Error())
			return err
		}
	}
	return nil
}
