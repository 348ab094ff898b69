package orchestration

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/bruecke/pkg/provider"
)

const defaultTimeout = 120 * time.Second

// Strategy implements provider.Strategy for the orchestration dialect.
type Strategy struct {
	dest   provider.Destination
	client *http.Client
}

var _ provider.Strategy = (*Strategy)(nil)

// New creates a Strategy for the given destination.
func New(dest provider.Destination) (*Strategy, error) {
	if dest.BaseURL == "" {
		return nil, fmt.Errorf("orchestration: BaseURL is required")
	}
	dest.BaseURL = strings.TrimRight(dest.BaseURL, "/")
	if dest.Timeout == 0 {
		dest.Timeout = defaultTimeout
	}

	return &Strategy{
		dest:   dest,
		client: &http.Client{Timeout: dest.Timeout},
	}, nil
}

// Name returns the strategy identifier.
func (s *Strategy) Name() string {
	return "orchestration"
}

// Close releases idle connections.
func (s *Strategy) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
