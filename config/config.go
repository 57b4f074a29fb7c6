// server/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	GinMode         string        `mapstructure:"ginMode"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	DBName         string        `mapstructure:"dbName"`
	Transactions   bool          `mapstructure:"transactions"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	OpTimeout      time.Duration `mapstructure:"opTimeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" hoặc "memory"
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
// Thứ tự ưu tiên: biến môi trường > config.yaml > giá trị mặc định.
func LoadConfig(path string) (config Config, err error) {
	// .env là tùy chọn; biến đã có trong môi trường không bị ghi đè.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	// Ví dụ: key "mongo.uri" trong YAML sẽ được ánh xạ tới biến môi trường "MONGO_URI"
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.ginMode", "GIN_MODE")
	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("mongo.transactions", "MONGO_TRANSACTIONS")
	v.BindEnv("mongo.opTimeout", "MONGO_OP_TIMEOUT")
	v.BindEnv("store.driver", "STORE_DRIVER")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.pretty", "LOG_PRETTY")
	v.BindEnv("cors.allowedOrigins", "CORS_ALLOWED_ORIGINS")

	// Nếu file không tồn tại, chỉ dùng biến môi trường và giá trị mặc định.
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	// Biến môi trường CSV ("a,b") đến dưới dạng một chuỗi duy nhất.
	config.CORS.AllowedOrigins = splitOrigins(config.CORS.AllowedOrigins)
	config.Store.Driver = strings.ToLower(strings.TrimSpace(config.Store.Driver))

	err = config.Validate()
	return config, err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.ginMode", "release")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 20*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.dbName", "farms")
	v.SetDefault("mongo.transactions", false)
	v.SetDefault("mongo.connectTimeout", 10*time.Second)
	v.SetDefault("mongo.opTimeout", time.Duration(0))
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("cors.allowedOrigins", []string{})
}

// Validate checks the values LoadConfig cannot default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("server.port must not be empty")
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.DBName == "" {
			return fmt.Errorf("mongo.uri and mongo.dbName are required for the %q driver", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}
	return nil
}

func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
