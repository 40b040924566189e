package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"

	"github.com/abdul-hamid-achik/factform/packages/facts"
	"github.com/abdul-hamid-achik/factform/packages/form"
	fhttp "github.com/abdul-hamid-achik/factform/packages/http"
)

// formatValue formats a value for display, truncating large values
func formatValue(v any, maxLen int) string {
	str := fmt.Sprintf("%v", v)
	if maxLen > 0 && len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	mu      sync.Mutex
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// Success prints the request line and the response payload.
func (f *ConsoleFormatter) Success(r facts.Result) {
	green := color.New(color.FgGreen).SprintFunc()

	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.writer, "%s %s\n", green("✓"), f.requestLine(r))
	f.writeFields(r)
	if r.Response == nil {
		return
	}
	if r.Operation == facts.OpSubmit && r.Response.IsJSON() {
		if id := r.Response.Get("id"); id.Exists() {
			fmt.Fprintf(f.writer, "    Fact id: %s\n", green(id.String()))
		}
	}
	f.writeBody(r.Response, "")
}

// Failure prints the request line and the error object.
func (f *ConsoleFormatter) Failure(r facts.Result) {
	red := color.New(color.FgRed).SprintFunc()

	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.writer, "%s %s\n", red("✗"), f.requestLine(r))
	f.writeFields(r)

	var (
		statusErr    *fhttp.StatusError
		parseErr     *fhttp.ParseError
		transportErr *fhttp.TransportError
		missingErr   *facts.MissingFieldError
	)
	switch {
	case errors.As(r.Err, &statusErr):
		fmt.Fprintf(f.writer, "    %s %s\n", red("Status:"), statusErr.Status)
		if r.Response != nil {
			f.writeBody(r.Response, "    ")
		}
	case errors.As(r.Err, &parseErr):
		fmt.Fprintf(f.writer, "    %s %v\n", red("Parse error:"), formatValue(parseErr.Body, 200))
	case errors.As(r.Err, &transportErr):
		kind := "Transport error:"
		if transportErr.Timeout() {
			kind = "Timeout:"
		}
		fmt.Fprintf(f.writer, "    %s %v\n", red(kind), transportErr.Err)
	case errors.As(r.Err, &missingErr):
		fmt.Fprintf(f.writer, "    %s %v (no request sent)\n", red("Error:"), missingErr)
	default:
		fmt.Fprintf(f.writer, "    %s %v\n", red("Error:"), r.Err)
	}
}

// FormatError prints an error that happened outside any call.
func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()

	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatFields prints a form's serialized mapping, sorted by name.
func (f *ConsoleFormatter) FormatFields(formID string, fields form.Fields) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.writer, "%s\n", bold("#"+formID))
	if len(fields) == 0 {
		fmt.Fprintf(f.writer, "  (no fields)\n")
		return
	}
	for _, name := range sortedNames(fields) {
		fmt.Fprintf(f.writer, "  %s = %q\n", cyan(name), fields[name])
	}
}

func (f *ConsoleFormatter) requestLine(r facts.Result) string {
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	line := fmt.Sprintf("%s %s", bold(r.Method), r.URL)
	if r.Response != nil {
		line += " " + r.Response.Status
		line += " " + cyan(fmt.Sprintf("(%dms)", r.Response.DurationMs()))
	}
	return line
}

func (f *ConsoleFormatter) writeFields(r facts.Result) {
	if !f.verbose {
		return
	}
	fmt.Fprintf(f.writer, "    Form: #%s\n", r.Form)
	for _, name := range sortedNames(r.Fields) {
		fmt.Fprintf(f.writer, "      %s = %q\n", name, r.Fields[name])
	}
}

func (f *ConsoleFormatter) writeBody(resp *fhttp.Response, indent string) {
	if len(resp.Body) == 0 {
		return
	}

	var text string
	if resp.IsJSON() {
		body := pretty.Pretty(resp.Body)
		if !color.NoColor {
			body = pretty.Color(body, nil)
		}
		text = strings.TrimRight(string(body), "\n")
	} else {
		text = resp.BodyString()
	}

	if indent == "" {
		fmt.Fprintln(f.writer, text)
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(f.writer, "%s%s\n", indent, line)
	}
}

func sortedNames(fields form.Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
