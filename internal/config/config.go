package config

import "os"

type Config struct {
	ListenAddr      string
	DBPath          string
	GroqAPIKey      string
	GroqTextModel   string
	GroqVisionModel string
	VisionBackend   string
	ClaudeAPIKey    string
	ClaudeModel     string
	FreepikAPIKey   string
	LogLevel        string
	LogFile         string
}

func Load() *Config {
	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "/data/greencart.db"),
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqTextModel:   getEnv("GROQ_TEXT_MODEL", "llama-3.1-8b-instant"),
		GroqVisionModel: getEnv("GROQ_VISION_MODEL", "llama-3.2-11b-vision-preview"),
		VisionBackend:   getEnv("VISION_BACKEND", "groq"),
		ClaudeAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		FreepikAPIKey:   getEnv("FREEPIK_API_KEY", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
