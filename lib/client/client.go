// Package client dials a Rustica server over mutually authenticated gRPC.
// It currently covers the allowed-signers surface used by host tooling.
package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"

	"github.com/gravitational/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/obelisk/rustica/api/rusticapb"
)

// Config carries the dial target and the client's mTLS credentials, all as
// PEM content.
type Config struct {
	Server      string
	CA          string
	Certificate string
	Key         string
}

func (c *Config) CheckAndSetDefaults() error {
	if c.Server == "" {
		return trace.BadParameter("missing parameter Server")
	}
	if c.CA == "" {
		return trace.BadParameter("missing parameter CA")
	}
	if c.Certificate == "" || c.Key == "" {
		return trace.BadParameter("missing client credentials")
	}
	return nil
}

// Client is a connection to one Rustica server.
type Client struct {
	rpc  rusticapb.RusticaClient
	conn *grpc.ClientConn
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(cfg.CA)) {
		return nil, trace.BadParameter("no CA certificates parsed")
	}
	cert, err := tls.X509KeyPair([]byte(cfg.Certificate), []byte(cfg.Key))
	if err != nil {
		return nil, trace.Wrap(err, "parsing client credentials")
	}

	conn, err := grpc.DialContext(ctx, cfg.Server,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			Certificates: []tls.Certificate{cert},
			RootCAs:      pool,
		})))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &Client{
		rpc:  rusticapb.NewRusticaClient(conn),
		conn: conn,
	}, nil
}

func (c *Client) Close() error {
	return trace.Wrap(c.conn.Close())
}
