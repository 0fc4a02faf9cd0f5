package config

import "os"

// Config holds the server configuration, read from the environment.
type Config struct {
	Port string

	MongoURI  string
	MongoDB   string
	RedisAddr string

	EditorUsername string
	EditorPassword string
	JWTSecret      string

	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "riskform"),
		RedisAddr: stripRedisScheme(getEnv("REDIS_URI", "localhost:6379")),

		EditorUsername: getEnv("EDITOR_USERNAME", "admin"),
		EditorPassword: getEnv("EDITOR_PASSWORD", "password123"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		CORSAllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func stripRedisScheme(addr string) string {
	if len(addr) > 8 && addr[:8] == "redis://" {
		return addr[8:]
	}
	return addr
}
