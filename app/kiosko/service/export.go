package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"

	"kiosko/common/log"
	ext "kiosko/config"
)

var exportColumns = []string{
	"Puesto", "Proyecto", "Ciclo", "Puntaje", "Problema", "Innovación",
	"Factibilidad Técnica", "Impacto", "Presentación", "Conocimiento",
	"Resultados", "Evaluaciones",
}

// ExportRanking writes the current leaderboard to a spreadsheet, pushes
// it to the export bucket and returns its download URL.
func (svc *KioskoService) ExportRanking(ctx context.Context) (string, error) {
	ranked, err := svc.Ranking(ctx)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	for i, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Sheet1", cell, name)
	}
	for row, r := range ranked {
		values := []interface{}{
			r.Rank,
			r.Project.Title,
			r.Project.Cycle,
			r.Project.Score,
			r.Project.ProblemScore,
			r.Project.InnovationScore,
			r.Project.TechScore,
			r.Project.ImpactScore,
			r.Project.PresentationScore,
			r.Project.KnowledgeScore,
			r.Project.ResultsScore,
			len(r.Project.Evaluations),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue("Sheet1", cell, val)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Logger().WithContext(ctx).Error("convert excelize.File to buffer: ", err.Error())
		return "", err
	}

	cfg := ext.Conf.MinIO
	filename := "ranking-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	_, err = svc.MinIOClient.PutObject(ctx, cfg.ExportBucket, filename, buf, int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
	if err != nil {
		log.Logger().WithContext(ctx).Error("minio save file: ", err.Error())
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(cfg.PublicURL, "/"), cfg.ExportBucket, filename), nil
}
