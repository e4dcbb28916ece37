package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Render  RenderConfig
	Storage StorageConfig
	Auth    AuthConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitKB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RenderConfig motor y presentación de los documentos.
type RenderConfig struct {
	Engine         string // "maroto" (por defecto) o "gofpdf"
	Locale         string // BCP 47, define el formato de fecha
	CurrencySymbol string
	CurrencyCode   string // ISO 4217, usado en el XML
	Compress       bool
}

// StorageConfig destino de archivo: directorio local y bucket S3/R2 opcional.
type StorageConfig struct {
	OutputDir       string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// AuthConfig JWT opcional para la API. Secret vacío = API abierta.
type AuthConfig struct {
	JWTSecret         string
	Issuer            string
	ExpirationMinutes int
}

// Enabled indica si la API exige token.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, RENDER_ENGINE, S3_BUCKET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env o config.env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "invoice-builder"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitKB: getInt(v, "HTTP_BODY_LIMIT_KB", 512),
		},
		Render: RenderConfig{
			Engine:         strings.ToLower(getString(v, "RENDER_ENGINE", "maroto")),
			Locale:         getString(v, "RENDER_LOCALE", "en-US"),
			CurrencySymbol: getString(v, "RENDER_CURRENCY_SYMBOL", "$"),
			CurrencyCode:   strings.ToUpper(getString(v, "RENDER_CURRENCY_CODE", "USD")),
			Compress:       getBool(v, "RENDER_COMPRESS", true),
		},
		Storage: StorageConfig{
			OutputDir:       getString(v, "OUTPUT_DIR", "."),
			Bucket:          getString(v, "S3_BUCKET", ""),
			Region:          getString(v, "S3_REGION", "auto"),
			Endpoint:        getString(v, "S3_ENDPOINT", ""),
			AccessKeyID:     getString(v, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getString(v, "S3_PREFIX", "invoices/"),
		},
		Auth: AuthConfig{
			JWTSecret:         getString(v, "AUTH_JWT_SECRET", ""),
			Issuer:            getString(v, "AUTH_JWT_ISSUER", "invoice-builder"),
			ExpirationMinutes: getInt(v, "AUTH_JWT_EXPIRATION_MINUTES", 60),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Render.Engine {
	case "maroto", "gofpdf":
	default:
		return fmt.Errorf("config: RENDER_ENGINE desconocido %q (maroto|gofpdf)", c.Render.Engine)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT fuera de rango: %d", c.HTTP.Port)
	}
	return nil
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
			n, err := strconv.Atoi(v.GetString(key))
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
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
