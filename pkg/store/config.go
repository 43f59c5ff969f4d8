package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/amal/pkg/timeutil"
)

// Backend names.
const (
	BackendDisk      = "disk"
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
)

type Config interface {
	BasePath() string
}

// Settings is everything read from .amal.yaml and the AMAL_ environment.
type Settings struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
	User    string `json:"user"`

	FirestoreProject     string `json:"firestoreProject,omitempty"`
	FirestoreCredentials string `json:"firestoreCredentials,omitempty"`

	ServerAddr   string `json:"serverAddr"`
	ServerSecret string `json:"-"`
	ServerAuth   string `json:"serverAuth"`

	AgendaPriority string        `json:"agendaPriority"`
	OrderCooldown  time.Duration `json:"orderCooldown"`
}

func (s *Settings) BasePath() string {
	return s.Path
}

// LoadConfig reads settings from the environment, a .env file and the first
// .amal.yaml found in $AMAL_CONFIG_PATH, the working directory or $HOME.
func LoadConfig() (*Settings, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "store: load .env: %v\n", err)
	}

	v.SetDefault("path", "~/.amal.db")
	v.SetDefault("backend", BackendDisk)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.auth", "jwt")
	v.SetDefault("agenda.priority", "routine,meeting,task")
	v.SetDefault("order.cooldown", timeutil.DefaultCooldown)
	v.SetConfigName(".amal") // .yaml is implicit
	v.SetEnvPrefix("AMAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("AMAL_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	cooldown, _, err := timeutil.ParseWindow(v.GetString("order.cooldown"), timeutil.DefaultCooldown)
	if err != nil {
		return nil, fmt.Errorf("store: order.cooldown: %w", err)
	}

	s := &Settings{
		Path:                 path,
		Backend:              strings.ToLower(v.GetString("backend")),
		User:                 v.GetString("user"),
		FirestoreProject:     v.GetString("firestore.project"),
		FirestoreCredentials: v.GetString("firestore.credentials"),
		ServerAddr:           v.GetString("server.addr"),
		ServerSecret:         v.GetString("server.secret"),
		ServerAuth:           strings.ToLower(v.GetString("server.auth")),
		AgendaPriority:       v.GetString("agenda.priority"),
		OrderCooldown:        cooldown,
	}
	switch s.Backend {
	case BackendDisk, BackendMemory, BackendFirestore:
	default:
		return nil, fmt.Errorf("store: unknown backend %q", s.Backend)
	}
	return s, nil
}
