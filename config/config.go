// Package config loads settings from defaults, an optional .env file, the
// JSON config file and the environment, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Language           string `json:"language"`
	DefaultCampus      string `json:"default_campus"`
	FacilitiesBaseURL  string `json:"facilities_base_url"`
	ProxyURL           string `json:"proxy_url"`
	ReservationBaseURL string `json:"reservation_base_url"`

	RequestTimeout  time.Duration `json:"-"`
	StartupAttempts int           `json:"startup_attempts"`
	StartupBackoff  time.Duration `json:"-"`
	BatchSize       int           `json:"batch_size"`
	NoticeTTL       time.Duration `json:"-"`

	Server ServerConfig `json:"server"`
	Map    MapConfig    `json:"map"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"-"`
	WriteTimeout    time.Duration `json:"-"`
	ShutdownTimeout time.Duration `json:"-"`
	CorsOrigins     []string      `json:"cors_origins"`
	SessionTTL      time.Duration `json:"-"`
}

type MapConfig struct {
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
	Zoom      int     `json:"zoom"`
}

func Default() Config {
	return Config{
		FacilitiesBaseURL:  "https://navi.jyu.fi/api",
		ProxyURL:           "https://jyu-room-proxy.mrbesher.workers.dev",
		ReservationBaseURL: "https://kovs-calendar.app.jyu.fi",
		RequestTimeout:     10 * time.Second,
		StartupAttempts:    5,
		StartupBackoff:     2 * time.Second,
		BatchSize:          30,
		NoticeTTL:          5 * time.Second,
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CorsOrigins:     []string{"*"},
			SessionTTL:      2 * time.Hour,
		},
		Map: MapConfig{
			CenterLat: 62.2416,
			CenterLng: 25.7594,
			Zoom:      14,
		},
	}
}

// Load reads .env (if present), the user config file and the environment.
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	conf, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&conf)
	return conf, validate(conf)
}

// LoadFile overlays the JSON file at path on the defaults. A missing file
// yields the defaults.
func LoadFile(path string) (Config, error) {
	conf := Default()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("config path is a directory: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&conf); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return conf, nil
}

func applyEnv(conf *Config) {
	conf.Language = getEnv("JYU_ROOMS_LANG", conf.Language)
	conf.DefaultCampus = getEnv("JYU_ROOMS_DEFAULT_CAMPUS", conf.DefaultCampus)
	conf.FacilitiesBaseURL = getEnv("JYU_ROOMS_FACILITIES_URL", conf.FacilitiesBaseURL)
	conf.ProxyURL = getEnv("JYU_ROOMS_PROXY_URL", conf.ProxyURL)
	conf.ReservationBaseURL = getEnv("JYU_ROOMS_RESERVATION_URL", conf.ReservationBaseURL)
	conf.RequestTimeout = getEnvAsDuration("JYU_ROOMS_REQUEST_TIMEOUT", conf.RequestTimeout)
	conf.StartupAttempts = getEnvAsInt("JYU_ROOMS_STARTUP_ATTEMPTS", conf.StartupAttempts)
	conf.StartupBackoff = getEnvAsDuration("JYU_ROOMS_STARTUP_BACKOFF", conf.StartupBackoff)
	conf.BatchSize = getEnvAsInt("JYU_ROOMS_BATCH_SIZE", conf.BatchSize)
	conf.NoticeTTL = getEnvAsDuration("JYU_ROOMS_NOTICE_TTL", conf.NoticeTTL)

	conf.Server.Host = getEnv("SERVER_HOST", conf.Server.Host)
	conf.Server.Port = getEnvAsInt("SERVER_PORT", conf.Server.Port)
	conf.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", conf.Server.ReadTimeout)
	conf.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", conf.Server.WriteTimeout)
	conf.Server.ShutdownTimeout = getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", conf.Server.ShutdownTimeout)
	conf.Server.CorsOrigins = getEnvAsSlice("SERVER_CORS_ORIGINS", conf.Server.CorsOrigins)
	conf.Server.SessionTTL = getEnvAsDuration("SERVER_SESSION_TTL", conf.Server.SessionTTL)

	conf.Map.CenterLat = getEnvAsFloat("MAP_CENTER_LAT", conf.Map.CenterLat)
	conf.Map.CenterLng = getEnvAsFloat("MAP_CENTER_LNG", conf.Map.CenterLng)
	conf.Map.Zoom = getEnvAsInt("MAP_ZOOM", conf.Map.Zoom)
}

func validate(conf Config) error {
	if conf.Language != "" && conf.Language != "fi" && conf.Language != "en" {
		return fmt.Errorf("language must be fi or en, got %q", conf.Language)
	}
	if conf.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", conf.BatchSize)
	}
	if conf.StartupAttempts <= 0 {
		return fmt.Errorf("startup attempts must be positive, got %d", conf.StartupAttempts)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
