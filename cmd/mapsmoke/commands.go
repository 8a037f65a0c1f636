package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/manzanit0/mapsmoke/pkg/env"
	"github.com/manzanit0/mapsmoke/pkg/geocode"
	"github.com/manzanit0/mapsmoke/pkg/gmaps"
	"github.com/manzanit0/mapsmoke/pkg/redact"
	"github.com/manzanit0/mapsmoke/pkg/runs"
	"github.com/manzanit0/mapsmoke/pkg/smoke"
	"github.com/manzanit0/mapsmoke/pkg/whttp"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Run directions, distance matrix, places, details, reverse geocode and static map",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newLibraryClient()
		if err != nil {
			return err
		}

		r, err := smoke.RunSamples(cmd.Context(), c)
		if err != nil {
			return smoke.Errorf(smoke.KindSamples, err)
		}

		return emit(cmd.Context(), cmd.OutOrStdout(), r)
	},
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode [address]",
	Short: "Geocode an address through the client library and build a static map for it",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newLibraryClient()
		if err != nil {
			return err
		}

		r, err := smoke.RunGeocode(cmd.Context(), c, strings.Join(args, " "))
		if err != nil {
			return smoke.Errorf(smoke.KindGeocode, err)
		}

		return emit(cmd.Context(), cmd.OutOrStdout(), r)
	},
}

var keycheckCmd = &cobra.Command{
	Use:   "keycheck [address]",
	Short: "Geocode an address with plain HTTP calls, bypassing the client library",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := resolveKey()
		if err != nil {
			return err
		}

		g := gmaps.NewRESTGeocoder(whttp.NewLoggingClientWithTimeout(timeout), key, gmaps.WithBaseURL(baseURL))

		r, err := smoke.RunKeyCheck(cmd.Context(), g, strings.Join(args, " "))
		if err != nil {
			return smoke.Errorf(smoke.KindKeyCheck, err)
		}

		return emit(cmd.Context(), cmd.OutOrStdout(), r)
	},
}

var crosscheckCmd = &cobra.Command{
	Use:   "crosscheck [address]",
	Short: "Geocode an address with Google and OpenStreetMap and compare the results",
	Long: `Geocode an address with Google and OpenStreetMap and compare the results.

The providers make their own HTTP calls: --timeout does not apply (they give
up after 8s) and their requests are not logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := resolveKey()
		if err != nil {
			return err
		}

		address := strings.Join(args, " ")
		if address == "" {
			address = smoke.DefaultAddress
		}

		r, err := geocode.Compare(geocode.NewGoogleClient(key), geocode.NewOpenstreetmapClient(), address)
		if err != nil {
			return fmt.Errorf("crosscheck run: %w", redact.Error(err))
		}
		r.RunID = ksuid.New().String()

		return emit(cmd.Context(), cmd.OutOrStdout(), r)
	},
}

func newLibraryClient() (gmaps.Client, error) {
	key, err := resolveKey()
	if err != nil {
		return nil, err
	}

	return gmaps.NewLibraryClient(key,
		gmaps.WithBaseURL(baseURL),
		gmaps.WithHTTPClient(whttp.NewLoggingClientWithTimeout(timeout)))
}

// emit prints r and, with --record, stores it.
func emit(ctx context.Context, w io.Writer, r smoke.Report) error {
	if err := smoke.Print(w, format, r); err != nil {
		return err
	}

	if !record {
		return nil
	}

	repo, closeDB, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.Save(ctx, r.ID(), r.Kind(), r); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	slog.InfoContext(ctx, "run recorded", "run_id", r.ID(), "kind", r.Kind())
	return nil
}

func openRepository(ctx context.Context) (*runs.PgRepository, func(), error) {
	dsn := env.DatabaseURL()
	if dsn == "" {
		return nil, nil, fmt.Errorf("missing %s environment variable. Please check your environment.", env.KeyDatabase)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open db connection: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("close db connection", "error", err.Error())
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	repo := runs.NewPgRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	return repo, closeDB, nil
}
