package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	"github.com/DOVA00/checking-links/internal/model"
)

// CheckTLSValidity connects to the host of rawURL and reports whether the
// leaf certificate has not yet expired. Non-https URLs are false without a
// connection. Dial and handshake share one deadline (5 seconds by default);
// any error yields a failed outcome.
func (p *Prober) CheckTLSValidity(ctx context.Context, rawURL string) model.Outcome {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Failed(model.CheckValidSSL, err.Error())
	}
	if u.Scheme != "https" {
		return model.Ok(false)
	}

	host := u.Hostname()
	if host == "" {
		return model.Failed(model.CheckValidSSL, "missing host")
	}
	port := u.Port()
	if port == "" {
		port = "443"
	}

	ctx, cancel := context.WithTimeout(ctx, p.tlsTimeout)
	defer cancel()

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if p.tlsConfig != nil {
		cfg = p.tlsConfig.Clone()
	}
	cfg.ServerName = host

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.tlsTimeout},
		Config:    cfg,
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		p.logger.Debug("TLS check failed", "url", rawURL, "error", err)
		return model.Failed(model.CheckValidSSL, err.Error())
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return model.Failed(model.CheckValidSSL, "not a TLS connection")
	}
	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return model.Failed(model.CheckValidSSL, "no peer certificate")
	}

	leaf := certs[0]
	if !p.now().Before(leaf.NotAfter) {
		expired := model.Ok(false)
		expired.Reason = fmt.Sprintf("certificate expired at %s", leaf.NotAfter.UTC().Format("2006-01-02"))
		return expired
	}
	return model.Ok(true)
}
