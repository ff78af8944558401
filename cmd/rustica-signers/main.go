// Command rustica-signers fetches the allowed-signers file from a Rustica
// server so hosts can verify SSH signatures from registered keys.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gravitational/kingpin"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"

	"github.com/obelisk/rustica/lib/client"
)

var log = logrus.WithFields(logrus.Fields{
	trace.Component: "rustica-signers",
})

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fetching allowed signers failed: %v", err)
	}
}

func run() error {
	app := kingpin.New("rustica-signers", "Fetch the allowed-signers file from a Rustica server.")
	server := app.Flag("server", "Rustica server address.").Required().String()
	caPath := app.Flag("ca", "Path to the PEM encoded CA that signed the server certificate.").Required().String()
	certPath := app.Flag("cert", "Path to the PEM encoded client mTLS certificate.").Required().String()
	keyPath := app.Flag("key", "Path to the PEM encoded client mTLS key.").Required().String()
	out := app.Flag("out", "Write the allowed-signers file here instead of stdout.").String()
	timeout := app.Flag("timeout", "Request timeout.").Default("30s").Duration()

	if _, err := app.Parse(os.Args[1:]); err != nil {
		return trace.Wrap(err)
	}

	ca, err := os.ReadFile(*caPath)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	cert, err := os.ReadFile(*certPath)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	key, err := os.ReadFile(*keyPath)
	if err != nil {
		return trace.ConvertSystemError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := client.New(ctx, client.Config{
		Server:      *server,
		CA:          string(ca),
		Certificate: string(cert),
		Key:         string(key),
	})
	if err != nil {
		return trace.Wrap(err)
	}
	defer c.Close()

	if *out != "" {
		start := time.Now()
		if err := c.WriteAllowedSigners(ctx, *out); err != nil {
			return trace.Wrap(err)
		}
		log.Infof("Wrote allowed signers to %s in %s", *out, time.Since(start).Round(time.Millisecond))
		return nil
	}

	signers, err := c.AllowedSigners(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	fmt.Println(signers)
	return nil
}
