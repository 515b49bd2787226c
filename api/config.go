package api

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

type Config struct {
	StorageConfig
	ServerConfig
	BroadcastConfig
}

type StorageConfig struct {
	TableNameVoters     string
	TableNameCandidates string
	TableNameVotes      string
	TableNameSettings   string
	TableNameAuditLog   string
}

type ServerConfig struct {
	Port int
}

type BroadcastConfig struct {
	AMQPURL  string
	Exchange string
}

var settingsOnce sync.Once

func ReadConfig() *Config {
	conf := &Config{
		StorageConfig: StorageConfig{
			TableNameVoters:     viper.GetString("storage.TableNameVoters"),
			TableNameCandidates: viper.GetString("storage.TableNameCandidates"),
			TableNameVotes:      viper.GetString("storage.TableNameVotes"),
			TableNameSettings:   viper.GetString("storage.TableNameSettings"),
			TableNameAuditLog:   viper.GetString("storage.TableNameAuditLog"),
		},
		ServerConfig: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		BroadcastConfig: BroadcastConfig{
			AMQPURL:  viper.GetString("broadcast.AmqpUrl"),
			Exchange: viper.GetString("broadcast.Exchange"),
		},
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}
