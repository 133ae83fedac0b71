package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/finbridge/zenapi/internal/config"
	"github.com/finbridge/zenapi/pkg/oauth"
)

func newLoginCommand() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize against the sync API and store the token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "localhost:8080", "address for the OAuth callback listener")

	return cmd
}

func runLogin(ctx context.Context, listenAddr string) error {
	cfg := config.OAuthConfig()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return errors.New("ZENAPI_CLIENT_ID and ZENAPI_CLIENT_SECRET must be set")
	}

	authClient := oauth.NewClient(cfg)
	state := uuid.New().String()

	fmt.Println("Open this URL in your browser to authorize:")
	fmt.Println()
	fmt.Println("  " + authClient.AuthorizationURL(state))
	fmt.Println()

	code, err := waitForCallback(ctx, listenAddr, state)
	if err != nil {
		return err
	}

	tok, err := authClient.FetchToken(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := saveToken(path, tok); err != nil {
		return err
	}

	fmt.Printf("Authorized. Token saved to %s\n", path)
	return nil
}

// waitForCallback runs a one-shot local HTTP server until the provider
// redirects the browser back with an authorization code.
func waitForCallback(ctx context.Context, addr, wantState string) (string, error) {
	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	deliver := func(cb callback) {
		select {
		case results <- cb:
		default: // a second hit on the callback is ignored
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "Authorization denied.", http.StatusBadRequest)
			deliver(callback{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("state") != wantState:
			http.Error(w, "State mismatch.", http.StatusBadRequest)
			deliver(callback{err: errors.New("state parameter mismatch, possible CSRF")})
		case q.Get("code") == "":
			http.Error(w, "Missing code.", http.StatusBadRequest)
			deliver(callback{err: errors.New("callback carried no authorization code")})
		default:
			fmt.Fprintln(w, "Authorized. You can close this tab.")
			deliver(callback{code: q.Get("code")})
		}
	}).Methods(http.MethodGet)

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(callback{err: fmt.Errorf("callback listener: %w", err)})
		}
	}()
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Debug().Err(err).Msg("Callback listener shutdown")
		}
	}()

	log.Debug().Str("addr", addr).Msg("Waiting for OAuth callback")

	select {
	case cb := <-results:
		return cb.code, cb.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
