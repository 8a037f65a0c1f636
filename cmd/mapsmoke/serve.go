package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/manzanit0/mapsmoke/pkg/env"
	"github.com/manzanit0/mapsmoke/pkg/gmaps"
	"github.com/manzanit0/mapsmoke/pkg/middleware"
	"github.com/manzanit0/mapsmoke/pkg/redact"
	"github.com/manzanit0/mapsmoke/pkg/smoke"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the smoke runs over HTTP for uptime probes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newLibraryClient()
		if err != nil {
			return err
		}

		return serve(cmd.Context(), newRouter(c))
	},
}

func newRouter(client gmaps.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(verbose))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.GET("/smoke/geocode", func(ctx *gin.Context) {
		report, err := smoke.RunGeocode(ctx.Request.Context(), client, ctx.Query("address"))
		if err != nil {
			ctx.JSON(http.StatusBadGateway, gin.H{"error": redact.Error(err).Error()})
			return
		}

		ctx.PureJSON(http.StatusOK, report)
	})

	r.GET("/smoke/samples", func(ctx *gin.Context) {
		report, err := smoke.RunSamples(ctx.Request.Context(), client)
		if err != nil {
			ctx.JSON(http.StatusBadGateway, gin.H{"error": redact.Error(err).Error()})
			return
		}

		ctx.PureJSON(http.StatusOK, report)
	})

	return r
}

func serve(ctx context.Context, h http.Handler) error {
	port := env.Port()

	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: h}

	errc := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- fmt.Errorf("server shutdown abruptly: %w", err)
			return
		}

		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited")
	return nil
}
