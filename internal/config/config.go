package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	AnthropicAPIKey string
	AnthropicModel  string

	UploadDir      string
	MaxUploadBytes int64

	MinTextChars      int
	MinOCRWords       int
	PDFNativeMinChars int

	TesseractLanguages string
	OCRTimeoutSeconds  int
	LLMTimeoutSeconds  int

	CORSAllowedOrigins string
	RateLimitRPS       int
	RateLimitBurst     int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("PORT", "3000"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		AnthropicAPIKey: mustEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  mustEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),

		UploadDir:      mustEnv("UPLOAD_DIR", "./data/uploads"),
		MaxUploadBytes: mustEnvInt64("MAX_UPLOAD_BYTES", 20*1024*1024),

		MinTextChars:      mustEnvInt("MIN_TEXT_CHARS", 50),
		MinOCRWords:       mustEnvInt("MIN_OCR_WORDS", 10),
		PDFNativeMinChars: mustEnvInt("PDF_NATIVE_MIN_CHARS", 100),

		TesseractLanguages: mustEnv("TESSERACT_LANGS", "ron+eng"),
		OCRTimeoutSeconds:  mustEnvInt("OCR_TIMEOUT_SECONDS", 60),
		LLMTimeoutSeconds:  mustEnvInt("LLM_TIMEOUT_SECONDS", 120),

		CORSAllowedOrigins: mustEnv("CORS_ALLOWED_ORIGINS", "*"),
		RateLimitRPS:       mustEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     mustEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
