package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Fiscal   FiscalConfig
	Exchange ExchangeConfig
	Imprenta ImprentaConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// FiscalConfig reglas fiscales del país del tenant. CountryCode selecciona el
// plugin de país en el registro (solo "VE" implementado).
type FiscalConfig struct {
	CountryCode string
	IVARate     string // porcentaje, ej: "16"
	IGTFRate    string // porcentaje, ej: "3"

	// Datos del emisor para la representación gráfica (PDF).
	IssuerName    string
	IssuerRIF     string
	IssuerAddress string
	IssuerPhone   string
	IssuerEmail   string
}

// ExchangeConfig fuente de tasa de cambio (BCV). La tasa se refresca por
// intervalo, nunca por cálculo.
type ExchangeConfig struct {
	BaseCurrency    string // "USD"
	QuoteCurrency   string // "VES"
	BCVURL          string // vacío = tasa estática (dev)
	StaticRate      string // usada si BCVURL está vacío
	RefreshMinutes  int
}

// ImprentaConfig proveedor de números de control fiscal. URL vacía = sin
// imprenta (dev: los documentos se emiten sin número de control).
type ImprentaConfig struct {
	URL    string
	APIKey string
}

// DBConfig configuración de PostgreSQL. Si DatabaseURL no está vacío, se usa
// como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si
// no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres
// especiales en la contraseña.
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

// JWTConfig validación del Bearer Token emitido por el servicio de identidad
// (la autenticación es un colaborador externo; aquí solo se valida).
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "facturacion-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        v.GetInt("DB_PORT"),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "facturacion"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getIntDefault(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "facturacion-api"),
		},
		Fiscal: FiscalConfig{
			CountryCode:   getString(v, "FISCAL_COUNTRY", "VE"),
			IVARate:       getString(v, "FISCAL_IVA_RATE", "16"),
			IGTFRate:      getString(v, "FISCAL_IGTF_RATE", "3"),
			IssuerName:    getString(v, "FISCAL_ISSUER_NAME", ""),
			IssuerRIF:     getString(v, "FISCAL_ISSUER_RIF", ""),
			IssuerAddress: getString(v, "FISCAL_ISSUER_ADDRESS", ""),
			IssuerPhone:   getString(v, "FISCAL_ISSUER_PHONE", ""),
			IssuerEmail:   getString(v, "FISCAL_ISSUER_EMAIL", ""),
		},
		Exchange: ExchangeConfig{
			BaseCurrency:   getString(v, "EXCHANGE_BASE", "USD"),
			QuoteCurrency:  getString(v, "EXCHANGE_QUOTE", "VES"),
			BCVURL:         getString(v, "EXCHANGE_BCV_URL", ""),
			StaticRate:     getString(v, "EXCHANGE_STATIC_RATE", "1"),
			RefreshMinutes: getIntDefault(v, "EXCHANGE_REFRESH_MINUTES", 30),
		},
		Imprenta: ImprentaConfig{
			URL:    getString(v, "IMPRENTA_URL", ""),
			APIKey: getString(v, "IMPRENTA_API_KEY", ""),
		},
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getIntDefault(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}
