package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domains    []string
	Email      string
	StorageDir string // optional; defaults to XDG or ~/.cache/sangama/certmagic
	CA         string // optional; defaults to Let's Encrypt prod
}

// BuildCertMagicTLS provisions/loads certificates via CertMagic and returns a
// TLS config plus the HTTP-01 challenge handler for :80.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, func(http.Handler) http.Handler, error) {
	if len(cfg.Domains) == 0 {
		return nil, nil, errors.New("at least one domain is required")
	}

	cm := certmagic.NewDefault()
	if cfg.StorageDir == "" {
		cfg.StorageDir = defaultCertDir()
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}

	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:     ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:  cfg.Email,
		Agreed: true,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, cfg.Domains); err != nil {
		return nil, nil, err
	}
	tlsConf := cm.TLSConfig()
	tlsConf.NextProtos = append([]string{"h2", "http/1.1"}, tlsConf.NextProtos...)
	tlsConf.MinVersion = tls.VersionTLS12
	return tlsConf, issuer.HTTPChallengeHandler, nil
}

func defaultCertDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "sangama", "certmagic")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "sangama", "certmagic")
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// ListenAndServe serves the router on addr until ctx is cancelled. When
// tls.domains is configured it serves HTTPS with managed certificates and
// answers ACME challenges (redirecting everything else) on :80.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	var redirect *http.Server

	domains := s.cfg.GetStringSlice("tls.domains")
	if len(domains) > 0 {
		tlsConf, challenge, err := BuildCertMagicTLS(ctx, CertMagicConfig{
			Domains: domains,
			Email:   s.cfg.GetString("tls.email"),
		})
		if err != nil {
			return fmt.Errorf("tls: %w", err)
		}
		srv.TLSConfig = tlsConf
		redirect = &http.Server{Addr: ":80", Handler: challenge(http.HandlerFunc(redirectHTTPS)), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Printf("http challenge listener failed: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()
	s.log.Printf("listening addr=%s tls=%t", addr, srv.TLSConfig != nil)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if redirect != nil {
		_ = redirect.Shutdown(shutCtx)
	}
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	return nil
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
}
