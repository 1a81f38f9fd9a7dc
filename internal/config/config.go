package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Store names the four logical stores the pipeline talks to.
type Store string

const (
	StoreChemlink   Store = "chemlink"
	StoreEngagement Store = "engagement"
	StoreGraph      Store = "graph"
	StoreAnalytics  Store = "analytics"
)

// PostgresConfig holds connection settings for one relational store.
type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Validate reports the env variables a store still needs before any
// connection attempt is allowed.
func (c PostgresConfig) Validate(store Store) error {
	prefix := envPrefix(store)
	var missing []string
	if c.Host == "" {
		missing = append(missing, prefix+"_HOST")
	}
	if c.Name == "" {
		missing = append(missing, prefix+"_NAME")
	}
	if c.User == "" {
		missing = append(missing, prefix+"_USER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("store %s: missing required settings: %s", store, strings.Join(missing, ", "))
	}
	return nil
}

// GraphConfig holds graph store settings. An empty URI means the graph
// store is not configured and graph stages are skipped.
type GraphConfig struct {
	URI      string
	User     string
	Password string
	Database string
}

func (c GraphConfig) Configured() bool { return c.URI != "" }

type Config struct {
	Env        string
	Chemlink   PostgresConfig
	Engagement PostgresConfig
	Analytics  PostgresConfig
	Graph      GraphConfig
	Tuning     Tuning
}

// Load resolves all store settings from the environment. Per-store
// validation is deferred to the command that actually opens the store.
func Load(log *logger.Logger) (Config, error) {
	env := strings.ToLower(envutil.Get("ETL_ENV", "local"))
	switch env {
	case "local", "cluster":
	default:
		return Config{}, fmt.Errorf("config: unknown ETL_ENV %q (want local or cluster)", env)
	}

	cfg := Config{
		Env:        env,
		Chemlink:   loadPostgres(StoreChemlink, env),
		Engagement: loadPostgres(StoreEngagement, env),
		Analytics:  loadPostgres(StoreAnalytics, env),
		Graph: GraphConfig{
			URI:      resolve("NEO4J_URI", env),
			User:     withDefault(resolve("NEO4J_USER", env), "neo4j"),
			Password: resolve("NEO4J_PASSWORD", env),
			Database: resolve("NEO4J_DATABASE", env),
		},
	}

	tuning, err := loadTuning(log)
	if err != nil {
		return Config{}, err
	}
	cfg.Tuning = tuning

	if log != nil {
		log.Debug("Configuration resolved",
			"etl_env", env,
			"chemlink_host", cfg.Chemlink.Host,
			"engagement_host", cfg.Engagement.Host,
			"analytics_host", cfg.Analytics.Host,
			"graph_configured", cfg.Graph.Configured())
	}
	return cfg, nil
}

func loadPostgres(store Store, env string) PostgresConfig {
	prefix := envPrefix(store)
	return PostgresConfig{
		Host:     resolve(prefix+"_HOST", env),
		Port:     withDefault(resolve(prefix+"_PORT", env), "5432"),
		Name:     resolve(prefix+"_NAME", env),
		User:     resolve(prefix+"_USER", env),
		Password: resolve(prefix+"_PASSWORD", env),
	}
}

func envPrefix(store Store) string {
	switch store {
	case StoreChemlink:
		return "CHEMLINK_PRD_DB"
	case StoreEngagement:
		return "ENGAGEMENT_PRD_DB"
	case StoreAnalytics:
		return "ANALYTICS_DB"
	default:
		return strings.ToUpper(string(store)) + "_DB"
	}
}

// resolve walks the per-profile fallback chain: the profile-suffixed name
// wins, the bare name is the fallback shared by both deployment targets.
func resolve(name, env string) string {
	v, _ := envutil.First(name+"_"+strings.ToUpper(env), name)
	return v
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// FilePath is where the optional tuning file is looked up when
// ETL_CONFIG_FILE is unset.
const FilePath = "etl.yaml"

func loadTuning(log *logger.Logger) (Tuning, error) {
	tuning := DefaultTuning()
	path := envutil.Get("ETL_CONFIG_FILE", FilePath)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tuning, nil
		}
		return tuning, fmt.Errorf("config: read %s: %w", path, err)
	}
	var overlay tuningFile
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return tuning, fmt.Errorf("config: parse %s: %w", path, err)
	}
	tuning = overlay.apply(tuning)
	if err := tuning.Validate(); err != nil {
		return tuning, fmt.Errorf("config: %s: %w", path, err)
	}
	if log != nil {
		log.Info("Tuning file loaded", "path", path)
	}
	return tuning, nil
}
