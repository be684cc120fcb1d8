package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"handwerk-hero/go_backend/internal/app/config"
	apphttp "handwerk-hero/go_backend/internal/app/http"
	"handwerk-hero/go_backend/internal/app/http/handlers"
	"handwerk-hero/go_backend/internal/app/quoting"
	"handwerk-hero/go_backend/internal/app/session"
	"handwerk-hero/go_backend/internal/domain/quote"
	pdfgen "handwerk-hero/go_backend/internal/domain/quote/pdf/gofpdf"
	"handwerk-hero/go_backend/internal/domain/quote/sheet"
	"handwerk-hero/go_backend/internal/infra/llm"
	"handwerk-hero/go_backend/internal/infra/storage/s3"
)

const sweepInterval = 10 * time.Minute

func Run() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := build(ctx, cfg)
	if err != nil {
		log.Fatalf("app: %v", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("app: shutdown err=%v", err)
		}
	}()

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("app: serve err=%v", err)
	}
}

// build wires the service graph. The returned cleanup releases the store.
func build(ctx context.Context, cfg config.Config) (http.Handler, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	deps := quoting.Deps{
		Estimator: llm.New(llm.Options{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIVisionModel,
			Timeout: cfg.ModelTimeout,
		}),
		Store: store,
		PDF: pdfgen.New(pdfgen.Options{
			DescriptionWidth: cfg.PDFDescriptionWidth,
			TypeColumn:       cfg.PDFTypeColumn,
		}),
		Sheet:      sheet.New(),
		ArchiveKey: s3.Key,
		Issuer:     quote.Issuer{Name: cfg.IssuerName, Contact: cfg.IssuerContact},
		Currency:   cfg.Currency,
	}

	if cfg.ArchiveS3Bucket != "" && store != nil {
		archive, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.ArchiveS3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		deps.Archive = archive
		log.Printf("archive: bucket=%s", cfg.ArchiveS3Bucket)
	}

	sessions := session.NewRegistry(cfg.SessionTTL)
	go sweep(ctx, sessions)

	h := handlers.New(quoting.New(deps), sessions, cfg.MaxUploadMB)
	router := apphttp.NewRouter(h, apphttp.RouterOptions{
		InternalToken:   cfg.InternalToken,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
	})
	return router, closeStore, nil
}

func sweep(ctx context.Context, sessions *session.Registry) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sessions.Sweep()
		}
	}
}
