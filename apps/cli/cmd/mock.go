package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/factform/packages/log"
	"github.com/abdul-hamid-achik/factform/packages/mock"
)

var (
	mockPortFlag    int
	mockDelayFlag   string
	mockVerboseFlag bool
	mockPageFlag    string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Start an in-memory animal facts service",
	Long: `Start an HTTP server that behaves like the animal facts service, keeping
facts in memory:

  POST   /animals/facts        {"fact": "..."} -> {"id": "<uuid>"}
  GET    /animals/facts/{id}   -> {"fact": "..."}
  DELETE /animals/facts/{id}   -> {"id": "<uuid>"}
  GET    /animals?q=...        -> {"question": "...", "facts": [...]}

Examples:
  factform mock
  factform mock --port 5000
  factform mock --page index.html --delay 100ms --verbose`,
	Args: usageArgs(cobra.NoArgs),
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", getEnvInt("FACTFORM_MOCK_PORT", mock.DefaultPort), "Port to run the mock server on (env: FACTFORM_MOCK_PORT)")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().BoolVarP(&mockVerboseFlag, "verbose", "v", false, "Log every request")
	mockCmd.Flags().StringVar(&mockPageFlag, "page", "", "HTML page to serve at /")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	// Parse delay
	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return usageError(fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err))
		}
	}

	level := zerolog.InfoLevel
	if mockVerboseFlag {
		level = zerolog.DebugLevel
	}

	opts := []mock.Option{
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithVerbose(mockVerboseFlag),
		mock.WithLogger(log.NewZerologAdapter(cmd.ErrOrStderr(), level)),
	}
	if mockPageFlag != "" {
		page, err := os.ReadFile(mockPageFlag)
		if err != nil {
			return parseError(err)
		}
		opts = append(opts, mock.WithPage(page))
	}

	server := mock.NewServer(opts...)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return server.StartWithContext(ctx)
}
