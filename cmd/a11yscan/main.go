package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bryanwahyu/accessiscan/internal/application"
	appscans "github.com/bryanwahyu/accessiscan/internal/application/scans"
	"github.com/bryanwahyu/accessiscan/internal/config"
	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
	"github.com/bryanwahyu/accessiscan/internal/infra/db/memory"
	"github.com/bryanwahyu/accessiscan/internal/infra/engine"
	"github.com/bryanwahyu/accessiscan/internal/output"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitLowScore = 2
)

type options struct {
	URL      string
	Name     string
	API      string
	Interval time.Duration
	Timeout  time.Duration
	PDF      bool
	OutDir   string
	JSON     bool
	Severity string
	MinScore int
}

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var o options
	flag.StringVar(&o.URL, "url", "", "Website URL to scan (required)")
	flag.StringVar(&o.Name, "name", "", "Website display name (optional)")
	flag.StringVar(&o.API, "api", cfg.Engine.BaseURL, "Scan engine base URL")
	flag.DurationVar(&o.Interval, "interval", cfg.PollInterval(), "Status polling interval")
	flag.DurationVar(&o.Timeout, "timeout", 0, "Give up after this long (0 = wait until the scan ends)")
	flag.BoolVar(&o.PDF, "pdf", false, "Also download the PDF report")
	flag.StringVar(&o.OutDir, "out", ".", "Directory for downloaded files")
	flag.BoolVar(&o.JSON, "json", false, "Print the report as JSON")
	flag.StringVar(&o.Severity, "severity", "all", "Only list issues of this severity: all|critical|serious|moderate|minor")
	flag.IntVar(&o.MinScore, "min-score", 0, "Exit with status 2 when the score is below this")
	flag.Parse()

	if o.URL == "" {
		fmt.Fprintln(os.Stderr, "-url is required")
		flag.Usage()
		os.Exit(exitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	eng := engine.NewClient(engine.Config{BaseURL: o.API, Timeout: cfg.EngineTimeout()})
	code, err := run(ctx, o, eng, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

// run submits the scan, follows it to the end and prints the report.
// Progress goes to progress; the report goes to out.
func run(ctx context.Context, o options, eng domain.Engine, out, progress io.Writer) (int, error) {
	filter, err := domain.ParseFilter(o.Severity)
	if err != nil {
		return exitError, err
	}

	svc := &appscans.Service{
		Engine:       eng,
		Repo:         memory.NewScanRepository(),
		Clock:        application.SystemClock{},
		PollInterval: o.Interval,
	}

	res, err := svc.StartScan(ctx, appscans.StartScanCommand{URL: o.URL, Name: o.Name})
	if err != nil {
		return exitError, err
	}
	fmt.Fprintf(progress, "Scan %s submitted for %s\n", res.Scan.ID, res.Website.URL)

	tracker := domain.NewProgressTracker()
	scan, err := svc.Watch(ctx, res.Scan.ID, func(s *domain.Scan) {
		for _, m := range tracker.Observe(s.Status, time.Now().UTC()) {
			fmt.Fprintf(progress, "[%s] %s\n", m.Timestamp.Local().Format("15:04:05"), m.Message)
		}
	})
	switch {
	case errors.Is(err, domain.ErrScanFailed):
		return exitError, fmt.Errorf("scan %s failed", res.Scan.ID)
	case errors.Is(err, context.DeadlineExceeded):
		return exitError, fmt.Errorf("gave up waiting for scan %s after %s", res.Scan.ID, o.Timeout)
	case errors.Is(err, context.Canceled):
		return exitError, fmt.Errorf("interrupted while waiting for scan %s", res.Scan.ID)
	case err != nil:
		return exitError, fmt.Errorf("%w (%s)", err, engine.Detail(err))
	}

	rep, err := domain.BuildReport(scan, filter)
	if err != nil {
		return exitError, err
	}
	if o.JSON {
		err = output.WriteJSON(out, rep)
	} else {
		err = output.WriteText(out, rep)
	}
	if err != nil {
		return exitError, err
	}

	if o.PDF {
		path, err := savePDF(ctx, svc, scan.ID, o.OutDir)
		if err != nil {
			return exitError, fmt.Errorf("%w (%s)", err, engine.Detail(err))
		}
		fmt.Fprintf(progress, "PDF report saved to %s\n", path)
	}

	if rep.Score < o.MinScore {
		fmt.Fprintf(progress, "score %d is below the minimum of %d\n", rep.Score, o.MinScore)
		return exitLowScore, nil
	}
	return exitOK, nil
}

func savePDF(ctx context.Context, svc *appscans.Service, id domain.ScanID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, appscans.PDFFileName(id))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := svc.DownloadPDF(ctx, id, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}
