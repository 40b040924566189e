package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/factform/packages/core/config"
	"github.com/abdul-hamid-achik/factform/packages/facts"
	"github.com/abdul-hamid-achik/factform/packages/form"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
	"github.com/abdul-hamid-achik/factform/packages/log"
	"github.com/abdul-hamid-achik/factform/packages/output"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	setFlags     []string
	configFlag   string
	baseURLFlag  string
	timeoutFlag  string
	outputFlag   string
	noColorFlag  bool
	verboseFlag  bool
	insecureFlag bool
	proxyFlag    string
)

var addCmd = newOperationCmd(facts.OpSubmit, "add", "addFactForm",
	"Submit a form as a new fact",
	`Serialize the form's controls into a JSON object and POST it to the
facts collection.

Examples:
  factform add index.html
  factform add index.html --set fact="otters hold hands"
  factform add index.html --form myForm --base-url http://facts.local:5000`)

var askCmd = newOperationCmd(facts.OpQuery, "ask", "askForm",
	"Ask the question held by a form",
	`Send the form's "question" field as the q parameter of the question
endpoint.

Examples:
  factform ask index.html
  factform ask index.html --set question="what do cats eat"`)

var getCmd = newOperationCmd(facts.OpFetch, "get", "factForm",
	"Fetch the fact whose id a form holds",
	`GET the fact addressed by the form's "fact_id" field.

Examples:
  factform get index.html --set fact_id=5f0c3a52-8f1e-4a7f-9d43-3bb6c6f1e1a2`)

var deleteCmd = newOperationCmd(facts.OpRemove, "delete", "factForm",
	"Delete the fact whose id a form holds",
	`DELETE the fact addressed by the form's "fact_id" field.

Examples:
  factform delete index.html --set fact_id=5f0c3a52-8f1e-4a7f-9d43-3bb6c6f1e1a2`)

func newOperationCmd(op facts.Operation, use, defaultForm, short, long string) *cobra.Command {
	var (
		formID string
		watch  bool
	)
	c := &cobra.Command{
		Use:   use + " <page.html>",
		Short: short,
		Long:  long,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, op, args[0], formID, watch)
		},
	}
	c.Flags().StringVarP(&formID, "form", "f", defaultForm, "Id of the form to send")
	c.Flags().BoolVarP(&watch, "watch", "w", false, "Watch the page for changes and send again")
	bindClientFlags(c)
	return c
}

// bindClientFlags registers the flags every command that loads a page shares.
func bindClientFlags(c *cobra.Command) {
	c.Flags().StringArrayVar(&setFlags, "set", nil, "Set a control value before sending (name=value, repeatable)")
	c.Flags().StringVar(&configFlag, "config", getEnvString("FACTFORM_CONFIG", ""), "Path to config file (env: FACTFORM_CONFIG)")
	c.Flags().StringVar(&baseURLFlag, "base-url", getEnvString("FACTFORM_BASE_URL", ""), "Base URL of the facts service (env: FACTFORM_BASE_URL)")
	c.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("FACTFORM_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: FACTFORM_TIMEOUT)")
	c.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("FACTFORM_OUTPUT", ""), "Output format: console, json (env: FACTFORM_OUTPUT)")
	c.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("FACTFORM_NO_COLOR", false), "Disable colored output (env: FACTFORM_NO_COLOR)")
	c.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("FACTFORM_VERBOSE", false), "Show sent fields and debug logs (env: FACTFORM_VERBOSE)")
	c.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("FACTFORM_INSECURE", false), "Disable SSL certificate validation (env: FACTFORM_INSECURE)")
	c.Flags().StringVar(&proxyFlag, "proxy", getEnvString("FACTFORM_PROXY", ""), "Proxy URL for HTTP requests (env: FACTFORM_PROXY)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Formatter is what the operation commands report through
type Formatter interface {
	facts.Reporter
	FormatError(err error)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig() (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, configError(fmt.Errorf("load config: %w", err))
	}

	overrides := &config.Config{
		BaseURL: baseURLFlag,
		Output:  strings.ToLower(outputFlag),
		Proxy:   proxyFlag,
	}
	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, configError(fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err))
		}
		overrides.Timeout = int(timeout.Milliseconds())
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}

	cfg := fileConfig.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

func newHTTPClient(cfg *config.Config) *fhttp.Client {
	opts := []fhttp.ClientOption{
		fhttp.WithTimeout(cfg.TimeoutDuration()),
		fhttp.WithFollowRedirects(cfg.GetFollowRedirects()),
		fhttp.WithValidateSSL(cfg.GetValidateSSL()),
		fhttp.WithDefaultHeaders(cfg.Headers),
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, fhttp.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		opts = append(opts, fhttp.WithProxy(cfg.Proxy))
	}
	return fhttp.NewClient(opts...)
}

func newFormatter(cfg *config.Config, w io.Writer) Formatter {
	if cfg.Output == "json" {
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	}
	return output.NewConsoleFormatter(
		output.WithWriter(w),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}

func newLogger(cfg *config.Config, w io.Writer) log.Logger {
	level := zerolog.WarnLevel
	if cfg.GetVerbose() {
		level = zerolog.DebugLevel
	}
	return log.NewZerologAdapter(w, level)
}

// loadPage parses the page and applies the --set assignments to formID.
func loadPage(path, formID string, logger log.Logger) (*form.Document, error) {
	doc, err := form.ParseFile(path)
	if err != nil {
		return nil, parseError(err)
	}

	if !doc.HasForm(formID) {
		logger.Warn("form not found in page, sending no fields",
			log.String("form", formID),
			log.String("page", path),
			log.Any("forms", doc.FormIDs()),
		)
	}

	for _, assignment := range setFlags {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || name == "" {
			return nil, usageError(fmt.Errorf("invalid --set %q (use name=value)", assignment))
		}
		if err := doc.SetValue(formID, name, value); err != nil {
			return nil, usageError(fmt.Errorf("--set %s: %w", name, err))
		}
	}
	return doc, nil
}

func runOperation(cmd *cobra.Command, op facts.Operation, page, formID string, watch bool) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	endpoints := facts.ResolveEndpoints(cfg.BaseURL, cfg.FactsPath, cfg.QueryPath)
	httpClient := newHTTPClient(cfg)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	send := func() error {
		doc, err := loadPage(page, formID, logger)
		if err != nil {
			return err
		}

		formatter := newFormatter(cfg, cmd.OutOrStdout())
		client := facts.NewClient(doc, httpClient, endpoints,
			facts.WithReporter(formatter),
			facts.WithLogger(logger),
		)

		start := time.Now()
		if _, err := client.Run(ctx, op, formID); err != nil {
			return usageError(err)
		}
		client.Wait()

		if flushable, ok := formatter.(Flushable); ok {
			if err := flushable.Flush(time.Since(start)); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
		return nil
	}

	if err := send(); err != nil {
		return err
	}

	if !watch {
		return nil
	}

	reportError := func(err error) {
		formatter := newFormatter(cfg, cmd.OutOrStdout())
		formatter.FormatError(err)
		if flushable, ok := formatter.(Flushable); ok {
			_ = flushable.Flush(0)
		}
	}
	return watchPage(ctx, cmd, page, logger, send, reportError)
}

// watchPage calls send each time page is written, until ctx is done. Failures
// are reported and watching goes on.
func watchPage(ctx context.Context, cmd *cobra.Command, page string, logger log.Logger, send func() error, reportError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	abs, err := filepath.Abs(page)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", page)

	// A slow send can outlive the debounce delay; resends never overlap.
	resend := serialized(func() {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\nSending again...\n\n", page)
		if err := send(); err != nil {
			reportError(err)
		}
	})

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, resend)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", log.Err(err))
		}
	}
}

// serialized wraps fn so that concurrent calls run one at a time.
func serialized(fn func()) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}
