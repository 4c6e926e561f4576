package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory for a URI scheme.
// Called by adapter implementations in their init() functions.
func Register(scheme string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(scheme)] = factory
}

// Get retrieves an adapter factory by scheme.
func Get(scheme string) (func(*slog.Logger) Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(scheme)]
	return f, ok
}

// ListSchemes returns all registered schemes (sorted).
func ListSchemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseURI parses a connection URI and normalizes its scheme.
// Parse errors never echo the URI, which may carry credentials.
func ParseURI(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("connection uri is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("invalid connection uri: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("connection uri has no scheme")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return u, nil
}

// Open parses uri, selects the adapter registered for its scheme and connects.
// The caller owns the returned adapter and must Close it.
func Open(ctx context.Context, uri string, logger *slog.Logger) (Adapter, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	factory, ok := Get(u.Scheme)
	if !ok {
		return nil, &UnknownSchemeError{
			Scheme:    u.Scheme,
			Available: ListSchemes(),
		}
	}

	a := factory(logger)
	if err := a.Connect(ctx, u); err != nil {
		return nil, err
	}
	return a, nil
}

// UnknownSchemeError is returned when no adapter handles a URI scheme.
type UnknownSchemeError struct {
	Scheme    string
	Available []string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("unknown store scheme %q\nAvailable schemes: %v\nHint: Check store.uri in leapbridge.yaml", e.Scheme, e.Available)
}
