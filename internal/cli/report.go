package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
)

// reporter serializes everything the optimize command writes to stdout.
type reporter struct {
	mu      sync.Mutex
	w       io.Writer
	quiet   bool
	headers bool

	bold  *color.Color
	green *color.Color
}

func newReporter(w io.Writer, quiet, headers bool) *reporter {
	return &reporter{
		w:       w,
		quiet:   quiet,
		headers: headers,
		bold:    color.New(color.Bold),
		green:   color.New(color.FgGreen),
	}
}

// data writes optimized markup.
func (r *reporter) data(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, s)
	return err
}

// result prints the timing and size summary of one file.
func (r *reporter) result(name string, elapsed time.Duration, inBytes, outBytes int) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.headers {
		fmt.Fprintf(r.w, "\n%s\n", r.bold.Sprint(name+":"))
	}
	fmt.Fprintf(r.w, "Done in %d ms!\n", elapsed.Milliseconds())

	profit := 0.0
	if inBytes > 0 {
		profit = 100 - float64(outBytes)*100/float64(inBytes)
	}
	sign := " - "
	if profit < 0 {
		sign = " + "
	}
	fmt.Fprintf(r.w, "%s KiB%s%s = %s KiB\n",
		kib(inBytes),
		sign,
		r.green.Sprint(formatFloat(math.Abs(math.Round(profit*10)/10))+"%"),
		kib(outBytes),
	)
}

func kib(n int) string {
	return formatFloat(math.Round(float64(n)/1024*1000) / 1000)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
