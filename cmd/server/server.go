package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kiosko/app/kiosko/api"
	"kiosko/app/kiosko/service"
	"kiosko/common/log"
	"kiosko/common/middleware"
	ext "kiosko/config"
)

var (
	configYml string
	StartCmd  = &cobra.Command{
		Use:          "server",
		Short:        "Start API server",
		Example:      "kiosko server -c config/settings.yml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
)

func init() {
	StartCmd.PersistentFlags().StringVarP(&configYml, "config", "c", "config/settings.yml", "Start server with provided configuration file")
}

func run() error {
	if err := ext.Setup(configYml); err != nil {
		return err
	}

	var mongodbClient *mongo.Client
	{
		cfg := ext.Conf.Mongodb
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// single DSN; the driver handles replica set primary discovery
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN))
		if err != nil {
			return err
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			log.Logger().Fatalf("mongodb ping: %s", err.Error())
		}
		mongodbClient = client
	}

	var minioClient *minio.Client
	{
		cfg := ext.Conf.MinIO
		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Key, cfg.Secret, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			log.Logger().Fatal(err)
		}
		minioClient = client
	}

	svc := service.NewKioskoService(mongodbClient, minioClient)
	kioskoAPI := api.NewKioskoAPI(svc)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := svc.Seed(ctx); err != nil {
			log.Logger().Warnf("seed: %s", err.Error())
		}
	}

	if ext.Conf.Application.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery()).
		Use(middleware.RequestID()).
		Use(middleware.AccessLog()).
		Use(middleware.Metrics())
	api.InitRouter(r, kioskoAPI)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ext.Conf.Application.Host, ext.Conf.Application.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger().Fatal("listen: ", err)
		}
	}()
	log.Logger().Infof("kiosko api listening on %s", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	fmt.Printf("%s Shutdown Server ... \r\n", time.Now().Format(time.RFC3339))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Logger().Fatal("Server Shutdown:", err)
	}
	if err := mongodbClient.Disconnect(ctx); err != nil {
		log.Logger().Errorf("mongodb disconnect: %s", err.Error())
	}
	log.Logger().Println("Server exiting")

	return nil
}
