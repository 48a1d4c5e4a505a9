package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnviroVar(name string) (string, error) {
	v, found := os.LookupEnv(name)
	if !found {
		return "", fmt.Errorf("environment variable %q must be specified", name)
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("environment variable %q must not be empty", name)
	}

	return v, nil
}

// Reads and parses the variable, returning fallback when it is unset or blank.
// A value that is set but cannot be parsed is still an error.
func GetEnviroVarOr[T any](name string, fallback T) (T, error) {
	v, err := GetEnviroVar(name)
	if err != nil {
		return fallback, nil
	}

	parsed, err := ParseEnviroVar[T](v)
	if err != nil {
		return fallback, fmt.Errorf("environment variable %q: %w", name, err)
	}

	return parsed, nil
}

// Parses an EnviroVar to the desired type
func ParseEnviroVar[T any](v string) (T, error) {
	var zero T
	v = strings.TrimSpace(v)

	switch any(zero).(type) {
	case string:
		return any(v).(T), nil
	case bool:
		val, err := strconv.ParseBool(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as bool: %v", v, err)
		}

		return any(val).(T), nil
	case int:
		val, err := strconv.Atoi(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as int: %v", v, err)
		}

		return any(val).(T), nil
	case int64:
		val, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as int64: %v", v, err)
		}

		return any(val).(T), nil
	case float64:
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as float64: %v", v, err)
		}

		return any(val).(T), nil
	case time.Duration:
		val, err := time.ParseDuration(v)
		if err != nil {
			return zero, fmt.Errorf("failed to parse %q as duration: %v", v, err)
		}

		return any(val).(T), nil
	}

	return zero, fmt.Errorf("unsupported environment variable type %T", zero)
}
