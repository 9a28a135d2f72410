package agent

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	evapi "kiosko/app/evaluator/api"
	"kiosko/app/evaluator/cache"
	"kiosko/app/evaluator/repo"
	"kiosko/app/kiosko/model"
	"kiosko/common/log"
	ext "kiosko/config"
)

var (
	configYml string
	StartCmd  = &cobra.Command{
		Use:          "agent",
		Short:        "Start evaluator sync agent",
		Example:      "kiosko agent -c config/settings.yml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
)

func init() {
	StartCmd.PersistentFlags().StringVarP(&configYml, "config", "c", "config/settings.yml", "Start agent with provided configuration file")
}

func run() error {
	if err := ext.Setup(configYml); err != nil {
		return err
	}
	cfg := ext.Conf.Agent

	client := evapi.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)

	localCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer localCache.Close()

	session := login(client, cfg)
	repository := repo.New(client, localCache, client.Reachable, session)

	sync := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
		if err := repository.SyncPendingEvaluations(ctx); err != nil {
			log.Logger().Errorf("sync pending: %s", err.Error())
		}
		if _, err := repository.GetProjects(ctx); err != nil {
			log.Logger().Errorf("refresh projects: %s", err.Error())
		}
	}

	// first pass right away, then on the configured schedule
	sync()
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SyncSpec, sync); err != nil {
		return err
	}
	scheduler.Start()
	log.Logger().Infof("kiosko agent syncing %q on schedule %q", cfg.CachePath, cfg.SyncSpec)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	<-scheduler.Stop().Done()
	log.Logger().Println("Agent exiting")
	return nil
}

// login resolves the evaluator session. Startup with the network down is
// normal for this agent, so a transport failure degrades to an offline
// session from the configured username; a server rejection (bad
// credentials, unverified account) is logged loudly because syncing will
// keep failing until it is fixed.
func login(client *evapi.Client, cfg ext.AgentConfig) model.Session {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	user, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		log.Logger().Warnf("login as %s failed, starting offline: %s", cfg.Username, err.Error())
		return model.Session{FullName: cfg.Username}
	}
	return model.Session{UserID: user.ID.Hex(), FullName: user.FullName}
}
