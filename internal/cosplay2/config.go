package cosplay2

import (
	"fmt"
	"time"
)

// DefaultUserAgent is sent with every request; the API rejects unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:142.0) Gecko/20100101 Firefox/142.0"

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 60 * time.Second

// Config holds connection settings for the remote API.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultBaseURL returns the API root of an event subdomain.
func DefaultBaseURL(eventName, host string) string {
	if host == "" {
		host = "cosplay2.ru"
	}
	return fmt.Sprintf("https://%s.%s/api/", eventName, host)
}

// DefaultConfig returns a Config for eventName with default timeout and agent.
func DefaultConfig(eventName string) Config {
	return Config{
		BaseURL:   DefaultBaseURL(eventName, ""),
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}
