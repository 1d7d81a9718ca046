package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cbiohub/cbioqa/internal/agent"
	"github.com/cbiohub/cbioqa/internal/openaiwire"
	"github.com/cbiohub/cbioqa/internal/sqllog"
)

var (
	serveAddr      string
	serveAgentType string
	serveSQLLog    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an agent behind an OpenAI-compatible endpoint",
	Long: `Exposes the selected agent at POST /chat/completions. Streaming requests
get SSE chunk frames; others a single JSON completion. This lets the
harness's own agents be benchmarked through the same HTTP path as external
ones.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: config serve.addr)")
	serveCmd.Flags().StringVarP(&serveAgentType, "agent", "a", agent.TypeGemini, "Agent type to serve")
	serveCmd.Flags().StringVar(&serveSQLLog, "sql-log", "", "MCP server log file to mine for a SQL appendix")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildAgent(ctx, serveAgentType)
	if err != nil {
		return err
	}

	srv := &openaiwire.Server{
		Ask: func(ctx context.Context, question string) (string, error) {
			answer, err := a.Ask(ctx, question)
			if err != nil {
				return "", err
			}
			return answer.Text, nil
		},
		Model: cfg.Serve.Model,
		Log:   logger,
	}
	if serveSQLLog != "" {
		srv.SQLMarkdown = sqlLogTailer(serveSQLLog)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("serving agent",
		zap.String("agent", a.Name()),
		zap.String("addr", addr))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sqlLogTailer mines an MCP server log for SQL statements. Each call reads
// only the lines appended since the previous one, so an answer's appendix
// covers the queries its own request triggered.
func sqlLogTailer(path string) func() string {
	var mu sync.Mutex
	var offset int64

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		f, err := os.Open(path)
		if err != nil {
			logger.Warn("cannot open sql log", zap.Error(err))
			return ""
		}
		defer func() { _ = f.Close() }()

		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return ""
		}

		capture := sqllog.NewLogger()
		capture.Enable()
		if err := capture.Scan(f); err != nil {
			logger.Warn("failed to scan sql log", zap.Error(err))
		}
		if pos, err := f.Seek(0, io.SeekCurrent); err == nil {
			offset = pos
		}

		return capture.Markdown()
	}
}
