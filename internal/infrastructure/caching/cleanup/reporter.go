// Package cleanup provides ascii reporter
package cleanup

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	cyan        = "\033[38;2;86;182;194m"  // One Dark Cyan: #56B6C2
	dimCyan     = "\033[38;2;47;91;102m"   // Dim Cyan: #2F5B66
	grey        = "\033[38;2;110;118;129m" // Brighter Grey: #6E7681
	dimGrey     = "\033[38;2;75;82;99m"    // Darker Grey: #4B5263
	success     = "\033[38;2;62;130;144m"  // Dim Cyan: #3E8290
	warning     = "\033[38;2;229;192;123m" // One Dark Yellow: #E5C07B
	errorRed    = "\033[38;2;224;108;117m" // One Dark Red: #E06C75
	white       = "\033[38;2;171;178;191m" // One Dark Foreground: #ABB2BF
	whiteBright = "\033[38;2;220;225;230m" // Brighter White
	reset       = "\033[0m"
	bold        = "\033[1m"
)

// SummarySource is anything that can describe its cache contents
type SummarySource interface {
	Summary() map[string]any
}

type Reporter struct {
	cache SummarySource
	out   io.Writer
}

func NewReporter(cache SummarySource) *Reporter {
	return &Reporter{cache: cache, out: os.Stdout}
}

// WithOutput redirects the reporter, mostly for tests
func (r *Reporter) WithOutput(w io.Writer) *Reporter {
	r.out = w
	return r
}

func (r *Reporter) LogHeader(title string) {
	fmt.Fprintf(r.out, "%s%s✓ %s %s\n", bold, cyan, strings.ToUpper(title), reset)
}

func (r *Reporter) LogStage(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, grey, formattedMsg, reset)
}

func (r *Reporter) LogSuccess(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, white, formattedMsg, reset)
}

func (r *Reporter) LogError(message string, err error) {
	fmt.Fprintf(r.out, "%s%s✖ ERROR: %s%s: %v%s\n", bold, errorRed, grey, message, err, reset)
}

func (r *Reporter) LogWarning(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s⚠ WARNING: %s%s%s\n", bold, warning, grey, formattedMsg, reset)
}

func (r *Reporter) LogInfo(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s▶ %s%s%s\n", dimGrey, grey, formattedMsg, reset)
}

// GenerateCacheReport renders the cache summary as a short block
func (r *Reporter) GenerateCacheReport() string {
	var report strings.Builder
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 MST")
	summary := r.cache.Summary()

	report.WriteString(fmt.Sprintf("%s%s▓ %s | %sContentful responses%s\n", bold, dimCyan, timestamp, whiteBright, reset))
	report.WriteString(fmt.Sprintf("%s  entries: %s%v%s (published %v, preview %v, expired %v)\n",
		grey, white, summary["entries"], grey, summary["published"], summary["preview"], summary["expired"]))
	report.WriteString(fmt.Sprintf("%s  bytes: %s%v%s  hits: %s%v%s  misses: %s%v%s\n",
		grey, white, summary["bytes"], grey, white, summary["hits"], grey, white, summary["misses"], reset))

	return report.String()
}
