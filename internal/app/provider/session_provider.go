package provider

import (
	"errors"
	"os"
	"sync"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/infrastructure/sessionloader"
)

type sessionProviderImpl struct {
	mu        sync.RWMutex
	token     string
	tokenFile string
	logger    port.Logger
}

// NewMemorySession returns a SessionStore that only lives in memory.
func NewMemorySession(token string, logger port.Logger) port.SessionStore {
	return &sessionProviderImpl{token: token, logger: logger}
}

// NewFileSession returns a SessionStore backed by tokenFile. The file is read
// once; SetToken and Clear write through. When the file does not exist the
// fallback token is used.
func NewFileSession(tokenFile, fallback string, logger port.Logger) (port.SessionStore, error) {
	p := &sessionProviderImpl{tokenFile: tokenFile, logger: logger}

	logger.Debug("Loading session token from file", "path", tokenFile)
	token, err := sessionloader.LoadToken(tokenFile)
	switch {
	case err == nil:
		p.token = token
		logger.Info("Session token loaded", "path", tokenFile)
	case errors.Is(err, os.ErrNotExist), errors.Is(err, sessionloader.ErrNoToken):
		p.token = fallback
		logger.Warn("No session token file, using configured token", "path", tokenFile, "hasFallback", fallback != "")
	default:
		logger.Error("Failed to load session token", "path", tokenFile, "error", err)
		return nil, err
	}
	return p, nil
}

func (p *sessionProviderImpl) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *sessionProviderImpl) SetToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	if p.tokenFile == "" {
		return
	}
	if err := sessionloader.SaveToken(p.tokenFile, token); err != nil {
		p.logger.Error("Failed to persist session token", "path", p.tokenFile, "error", err)
	}
}

func (p *sessionProviderImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	if p.tokenFile == "" {
		return
	}
	if err := sessionloader.RemoveToken(p.tokenFile); err != nil {
		p.logger.Error("Failed to remove session token file", "path", p.tokenFile, "error", err)
	}
}
