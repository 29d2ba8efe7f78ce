package configutil

import (
	"os"
	"strconv"
	"strings"
)

// Env* overlay environment variables onto already-loaded config values.
// An unset or malformed variable leaves the destination untouched.

func EnvString(key string, out *string) {
	v := os.Getenv(key)
	if v != "" {
		*out = v
	}
}

func EnvInt(key string, out *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*out = n
}

func EnvBool(key string, out *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return
	}
	*out = b
}

// EnvStrings parses a comma-separated list.
func EnvStrings(key string, out *[]string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) > 0 {
		*out = result
	}
}
