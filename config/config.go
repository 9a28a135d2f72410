package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var Conf Config

type Config struct {
	Application ApplicationConfig `mapstructure:"application"`
	Mongodb     MongodbConfig     `mapstructure:"mongodb"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Agent       AgentConfig       `mapstructure:"agent"`
}

type ApplicationConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type MongodbConfig struct {
	DSN                string `mapstructure:"dsn"`
	Database           string `mapstructure:"database"`
	ProjectCollection  string `mapstructure:"projectcollection"`
	UserCollection     string `mapstructure:"usercollection"`
	ActivityCollection string `mapstructure:"activitycollection"`
}

type MinIOConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	Key          string `mapstructure:"key"`
	Secret       string `mapstructure:"secret"`
	UseSSL       bool   `mapstructure:"usessl"`
	MediaBucket  string `mapstructure:"mediabucket"`
	ExportBucket string `mapstructure:"exportbucket"`
	PublicURL    string `mapstructure:"publicurl"`
}

type AgentConfig struct {
	BaseURL        string `mapstructure:"baseurl"`
	TimeoutSeconds int    `mapstructure:"timeoutseconds"`
	CachePath      string `mapstructure:"cachepath"`
	SyncSpec       string `mapstructure:"syncspec"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
}

// Setup reads the yaml config file at path into Conf. Environment
// variables prefixed with KIOSKO_ override file values, e.g.
// KIOSKO_MONGODB_DSN.
func Setup(path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 8000)
	v.SetDefault("application.mode", "dev")
	v.SetDefault("mongodb.database", "kioskoAppDB")
	v.SetDefault("mongodb.projectcollection", "proyectos")
	v.SetDefault("mongodb.usercollection", "maestros")
	v.SetDefault("mongodb.activitycollection", "actividades")
	v.SetDefault("agent.timeoutseconds", 30)
	v.SetDefault("agent.syncspec", "@every 1m")
	v.SetDefault("agent.cachepath", "kiosko_offline.db")

	v.SetEnvPrefix("KIOSKO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := v.Unmarshal(&Conf); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	return nil
}
