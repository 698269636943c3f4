package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the subset of settings every component reads. Values come from
// .soulsync.yaml and SOULSYNC_* environment variables.
type Config interface {
	BasePath() string
}

// Settings is the full configuration loaded by LoadConfig.
type Settings struct {
	Path string `json:"path"`

	ReplyEndpoint string        `json:"replyEndpoint"`
	ReplyModel    string        `json:"replyModel"`
	ReplyTimeout  time.Duration `json:"replyTimeout"`

	TokenDelay    time.Duration `json:"tokenDelay"`
	FallbackDelay time.Duration `json:"fallbackDelay"`

	ReducedMotion bool   `json:"reducedMotion"`
	Theme         string `json:"theme"`

	SpeechCommand string `json:"speechCommand"`

	ServerAddr string `json:"serverAddr"`
}

// BasePath implements Config.
func (s *Settings) BasePath() string {
	return s.Path
}

const (
	DefaultPath          = "~/.soulsync.db"
	DefaultReplyEndpoint = "http://127.0.0.1:8000/api/chat"
	DefaultServerAddr    = ":8000"
)

// LoadConfig walks the config search path and returns resolved settings.
func LoadConfig() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("reply.endpoint", DefaultReplyEndpoint)
	v.SetDefault("reply.model", "")
	v.SetDefault("reply.timeout", 20*time.Second)
	v.SetDefault("chat.token_delay", 18*time.Millisecond)
	v.SetDefault("chat.fallback_delay", 200*time.Millisecond)
	v.SetDefault("motion.reduced", false)
	v.SetDefault("theme", "")
	v.SetDefault("speech.command", "")
	v.SetDefault("server.addr", DefaultServerAddr)

	v.SetConfigName(".soulsync") // .yaml is implicit
	v.SetEnvPrefix("SOULSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("SOULSYNC_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &Settings{
		Path:          path,
		ReplyEndpoint: v.GetString("reply.endpoint"),
		ReplyModel:    v.GetString("reply.model"),
		ReplyTimeout:  v.GetDuration("reply.timeout"),
		TokenDelay:    v.GetDuration("chat.token_delay"),
		FallbackDelay: v.GetDuration("chat.fallback_delay"),
		ReducedMotion: v.GetBool("motion.reduced"),
		Theme:         v.GetString("theme"),
		SpeechCommand: v.GetString("speech.command"),
		ServerAddr:    v.GetString("server.addr"),
	}, nil
}
