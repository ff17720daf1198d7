package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type EnvVars struct {
	Host        string
	Port        int // HTTP API
	GrpcPort    int // gRPC Ranker service
	RabbitHost  string
	RabbitUser  string
	RabbitPass  string
	WorkQueue   string
	ResultQueue string
	EngineLog   bool
	ServerLog   bool
	LogLevel    string
	LogFormat   string
}

// ReadEnvVars loads the .env file if it exists (it will not override
// already existing env vars) and reads every variable with its default
func ReadEnvVars() EnvVars {
	_ = godotenv.Load()
	return EnvVars{
		Host:        readStringEnvVarOr("HOST", ""),
		Port:        ReadIntEnvVarOr("PORT", 8080),
		GrpcPort:    ReadIntEnvVarOr("GRPC_PORT", 1234),
		RabbitHost:  readStringEnvVarOr("RABBIT_HOST", ""),
		RabbitUser:  readStringEnvVarOr("RABBIT_USER", "guest"),
		RabbitPass:  readStringEnvVarOr("RABBIT_PASSWORD", "guest"),
		WorkQueue:   readStringEnvVarOr("WORK_QUEUE", "work"),
		ResultQueue: readStringEnvVarOr("RESULT_QUEUE", "result"),
		EngineLog:   readBoolEnvVarOr("ENGINE_LOG", false),
		ServerLog:   readBoolEnvVarOr("SERVER_LOG", false),
		LogLevel:    readStringEnvVarOr("LOG_LEVEL", "info"),
		LogFormat:   readStringEnvVarOr("LOG_FORMAT", "text"),
	}
}

// RabbitURL is empty when no broker is configured
func (e EnvVars) RabbitURL() string {
	if e.RabbitHost == "" {
		return ""
	}
	return fmt.Sprintf("amqp://%s:%s@%s:5672/", e.RabbitUser, e.RabbitPass, e.RabbitHost)
}

func (e EnvVars) LogConfig() LogConfig {
	return LogConfig{
		Level:  e.LogLevel,
		Format: e.LogFormat,
		Engine: e.EngineLog,
		Server: e.ServerLog,
	}
}

func readStringEnvVar(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return value, nil
}

func readIntEnvVar(name string) (int, error) {
	valueStr, err := readStringEnvVar(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %w", name, err)
	}
	return value, nil
}

func readStringEnvVarOr(name string, or string) string {
	value, err := readStringEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func ReadIntEnvVarOr(name string, or int) int {
	value, err := readIntEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func readBoolEnvVarOr(name string, or bool) bool {
	valueStr, err := readStringEnvVar(name)
	if err != nil {
		return or
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return or
	}
	return value
}
