package utils

import (
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"regexp"
	"satchel/shared/endpoints"
	"strconv"
	"strings"
	"time"
)

// GetEnvVar is the primary method for reading variables from the environment.
// Note that variables are unset after they are retrieved, so the value needs
// to be stored in some way if it needs to be accessed more than once.
func GetEnvVar(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}

	err := os.Unsetenv(key)
	if err != nil {
		log.Fatalf("Failed to unset %s key: %v\n", key, err)
	}

	return strings.TrimSpace(value)
}

// GetEnvVarInt retrieves a string value from the environment and converts it
// into an integer.
func GetEnvVarInt(key string, fallback int) int {
	value := GetEnvVar(key, strconv.Itoa(fallback))
	if value == "" {
		return fallback
	}

	num, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: Value for %s is not a valid number, using fallback...\n", key)
		return fallback
	}

	return num
}

// GetEnvVarBool retrieves a value from the environment and interprets it as a
// bool value -- 0/n/false == false, 1/y/true == true
func GetEnvVarBool(key string, fallback bool) bool {
	value := GetEnvVar(key, "")
	value = strings.ToLower(value)

	if value == "" {
		return fallback
	} else if value == "0" || value == "n" || value == "false" {
		return false
	} else if value == "1" || value == "y" || value == "true" {
		return true
	}

	return fallback
}

// GetEnvVarDuration reads a Go duration string ("500ms", "15s", "1h") from the
// environment.
func GetEnvVarDuration(key string, fallback time.Duration) time.Duration {
	value := GetEnvVar(key, "")
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration < 0 {
		log.Printf("WARNING: Value for %s is not a valid duration, using fallback...\n", key)
		return fallback
	}

	return duration
}

// GetEnvVarList reads a comma separated list from the environment, dropping
// empty entries.
func GetEnvVarList(key string, fallback []string) []string {
	value := GetEnvVar(key, "")
	if value == "" {
		return fallback
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if len(item) > 0 {
			result = append(result, item)
		}
	}

	if len(result) == 0 {
		return fallback
	}

	return result
}

func IsAnyStringMissing(s ...string) bool {
	for _, str := range s {
		if len(str) == 0 {
			return true
		}
	}

	return false
}

func Contains(arr []string, val string) bool {
	for _, item := range arr {
		if item == val {
			return true
		}
	}

	return false
}

func ParseSizeString(str string) int64 {
	pattern := regexp.MustCompile(`^(\d+)([a-zA-Z]+)$`)
	matches := pattern.FindStringSubmatch(str)

	if len(matches) == 3 {
		numStr := matches[1]
		num, err := strconv.Atoi(numStr)
		if err != nil {
			log.Printf("Error converting number: %v\n", err)
			return 0
		}

		i64num := int64(num)
		letters := strings.ToUpper(matches[2])

		switch letters[0] {
		case 'T': // Terabyte
			return int64(1024) * 1024 * 1024 * 1024 * i64num
		case 'G': // Gigabyte
			return int64(1024) * 1024 * 1024 * i64num
		case 'M': // Megabyte
			return int64(1024) * 1024 * i64num
		case 'K': // Kilobyte
			return int64(1024) * i64num
		default:
			return i64num
		}
	} else if num, err := strconv.ParseInt(str, 10, 64); err == nil {
		return num
	} else {
		log.Printf("No match found for size string: %s\n", str)
	}

	return 0
}

// LimitedJSONReader wraps the request body in a reader that errors once the
// body exceeds 64kb, which comfortably covers the largest id lists accepted
// by the API.
func LimitedJSONReader(w http.ResponseWriter, body io.ReadCloser) *json.Decoder {
	return limitedJSONReader(w, body, 65536)
}

func limitedJSONReader(w http.ResponseWriter, body io.ReadCloser, limit int) *json.Decoder {
	limitedBody := http.MaxBytesReader(w, body, int64(limit))
	return json.NewDecoder(limitedBody)
}

// GetTrailingURLSegments strips the static part of each endpoint from the
// path and returns whatever segments are left.
func GetTrailingURLSegments(path string, strip ...endpoints.Endpoint) []string {
	if strings.HasSuffix(path, "/") {
		path = path[0 : len(path)-1]
	}

	for _, endpoint := range strip {
		endpointBase := strings.ReplaceAll(string(endpoint), "/*", "")
		path = strings.Replace(path, endpointBase, "", 1)
		if strings.HasSuffix(path, string(endpoint)) {
			// There is no trailing segment, it ends with the base endpoint
			return []string{}
		}
	}

	path = strings.TrimPrefix(path, "/")
	if len(path) == 0 {
		return []string{}
	}

	return strings.Split(path, "/")
}

// GetPathID returns the wildcard segment of an endpoint such as
// "/api/v1/catalogs/*/artifacts" for the given request path.
func GetPathID(path string, endpoint endpoints.Endpoint) string {
	patternParts := strings.Split(string(endpoint), "/")
	pathParts := strings.Split(strings.Split(path, "?")[0], "/")
	if len(patternParts) != len(pathParts) {
		return ""
	}

	for i, part := range patternParts {
		if part == "*" {
			return pathParts[i]
		}
	}

	return ""
}

func GetReqSource(req *http.Request) (string, error) {
	ip := req.Header.Get("X-Forwarded-For")

	if len(ip) == 0 {
		fallbackIP, _, err := net.SplitHostPort(req.RemoteAddr)
		if err != nil {
			return "", err
		}

		ip = fallbackIP
	}

	return ip, nil
}
