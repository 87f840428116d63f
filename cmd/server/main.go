// Command server runs the authenticating reverse proxy: it parses
// configuration from flags and the environment, builds the
// credential-checked dispatcher, and serves it behind a
// connection-limited listener until terminated.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poletaevvlad/authproxy/internal/assets"
	"github.com/poletaevvlad/authproxy/internal/config"
	"github.com/poletaevvlad/authproxy/internal/dispatcher"
	"github.com/poletaevvlad/authproxy/internal/server"
)

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	a, err := assets.Load()
	if err != nil {
		log.Fatalf("loading embedded assets: %v", err)
	}

	disp := &dispatcher.Dispatcher{
		Config: cfg,
		Client: &http.Client{Timeout: 30 * time.Second},
		Assets: a,
	}

	srv, err := server.New(cfg, disp)
	if err != nil {
		log.Fatalf("starting server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on %s", cfg.Addr())
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func parseFlags() config.Flags {
	var f config.Flags
	flag.StringVar(&f.Upstream, "upstream", "", "upstream base URL (env UPSTREAM_URL)")
	flag.StringVar(&f.Secret, "secret", "", "64-hex-digit signing secret (env AUTH_SECRET)")
	flag.StringVar(&f.SecretFile, "secret-file", "", "path to a file containing the hex signing secret (env AUTH_SECRET_FILE)")
	flag.StringVar(&f.Users, "users", "", "semicolon-separated [user]:salt:hex-hash credential list (env AUTH_USERS)")
	flag.StringVar(&f.Host, "host", "", "bind host (env HOST, default 127.0.0.1)")
	flag.StringVar(&f.Port, "port", "", "bind port (env PORT, default 3000)")
	flag.StringVar(&f.TLSDomain, "tls-domain", "", "domain to obtain an automatic HTTPS certificate for (env TLS_DOMAIN)")
	flag.IntVar(&f.MaxConnsPerIP, "max-conns-per-ip", 0, "max concurrent connections per remote IP (env MAX_CONNS_PER_IP, default 50)")
	flag.Int64Var(&f.MaxConns, "max-conns", 0, "max total concurrent connections (env MAX_CONNS, default 10000)")
	flag.Parse()
	return f
}
