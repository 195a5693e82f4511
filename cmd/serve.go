package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only lead API for the mobile UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedMethods: []string{http.MethodGet},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			limit, _ := strconv.Atoi(q.Get("limit"))

			status := model.Status(q.Get("status"))
			if status != "" && !status.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
				return
			}

			leads, err := st.ListLeads(req.Context(), store.LeadFilter{
				Status: status,
				Query:  q.Get("q"),
				Limit:  limit,
			})
			if err != nil {
				serveError(w, "list leads", err)
				return
			}
			writeJSON(w, http.StatusOK, leads)
		})

		r.Get("/leads/next", func(w http.ResponseWriter, req *http.Request) {
			var skip []string
			if raw := req.URL.Query().Get("skip"); raw != "" {
				skip = strings.Split(raw, ",")
			}
			lead, err := st.NextBestLead(req.Context(), skip)
			if err != nil {
				serveError(w, "next best lead", err)
				return
			}
			if lead == nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "no pending leads"})
				return
			}
			writeJSON(w, http.StatusOK, lead)
		})

		r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
			lead, err := st.GetLead(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
				return
			}
			writeJSON(w, http.StatusOK, lead)
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.Int("port", cfg.Server.Port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		}
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serveError(w http.ResponseWriter, action string, err error) {
	zap.L().Error("serve: "+action, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
