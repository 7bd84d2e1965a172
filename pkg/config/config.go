package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Upstream  UpstreamConfig
	Session   SessionConfig
	Planillas PlanillasConfig
	Upload    UploadConfig
	Admin     AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	RunMigrations bool
	MaxConns      int32
	MinConns      int32
	ForceIPv4     bool // resolver el host a IPv4 al conectar (contenedores sin IPv6)
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	CORSOrigins    string // lista separada por comas
	RequestTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpstreamConfig motor externo de procesamiento de planillas y cruce de LOG.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig vigencia de las sesiones de carga de aportantes.
type SessionConfig struct {
	TTL             time.Duration
	JanitorInterval time.Duration
}

// PlanillasConfig rango de años de la grilla de planillas.
type PlanillasConfig struct {
	MinYear int
	MaxYear int
}

// UploadConfig límites de carga de archivos.
type UploadConfig struct {
	MaxMB int
}

// MaxBytes límite de carga en bytes.
func (c UploadConfig) MaxBytes() int {
	return c.MaxMB * 1024 * 1024
}

// AdminConfig usuario administrador inicial; vacío no crea ninguno.
type AdminConfig struct {
	Email    string
	Password string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, UPSTREAM_BASE_URL, etc.
func Load() (*Config, error) {
	// .env carga variables al entorno del proceso sin pisar las ya definidas
	_ = godotenv.Load() // ignoramos error si no existe

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "parafiscales-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "parafiscales"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			RunMigrations: getBool(v, "DB_RUN_MIGRATIONS", true),
			MaxConns:      int32(getInt(v, "DB_MAX_CONNS", 10)),
			MinConns:      int32(getInt(v, "DB_MIN_CONNS", 2)),
			ForceIPv4:     getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "parafiscales-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8000),
			CORSOrigins: getString(v, "HTTP_CORS_ORIGINS", "http://localhost:3000"),
			// por defecto el del motor más un margen para armar la respuesta
			RequestTimeout: time.Duration(getInt(v, "HTTP_REQUEST_TIMEOUT_SECONDS", 330)) * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL: getString(v, "UPSTREAM_BASE_URL", "http://127.0.0.1:8001"),
			Timeout: time.Duration(getInt(v, "UPSTREAM_TIMEOUT_SECONDS", 300)) * time.Second,
		},
		Session: SessionConfig{
			TTL:             time.Duration(getInt(v, "SESSION_TTL_MINUTES", 720)) * time.Minute,
			JanitorInterval: time.Duration(getInt(v, "SESSION_JANITOR_MINUTES", 15)) * time.Minute,
		},
		Planillas: PlanillasConfig{
			MinYear: getInt(v, "PLANILLAS_MIN_YEAR", 1992),
			MaxYear: getInt(v, "PLANILLAS_MAX_YEAR", 2025),
		},
		Upload: UploadConfig{
			MaxMB: getInt(v, "UPLOAD_MAX_MB", 200),
		},
		Admin: AdminConfig{
			Email:    getString(v, "ADMIN_EMAIL", ""),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
	}

	if cfg.Planillas.MinYear > cfg.Planillas.MaxYear {
		return nil, fmt.Errorf("config: PLANILLAS_MIN_YEAR (%d) mayor que PLANILLAS_MAX_YEAR (%d)",
			cfg.Planillas.MinYear, cfg.Planillas.MaxYear)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL_MINUTES debe ser positivo")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
