package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dcbickfo/pg-ulid/internal/filter"
	"github.com/dcbickfo/pg-ulid/internal/metrics"
	"github.com/dcbickfo/pg-ulid/pkg/log"
	"github.com/dcbickfo/pg-ulid/pkg/ulid"
	"github.com/dcbickfo/pg-ulid/pkg/ulid/sortsupport"
)

// decodeChunk is the number of input lines one decode task handles.
const decodeChunk = 4096

// newSortCommand constructs the `sort` command.
func newSortCommand(rt *app) *cobra.Command {
	sortCmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort ULIDs read one per line from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reverse, _ := cmd.Flags().GetBool("reverse")
			expr, _ := cmd.Flags().GetString("filter")
			noAbbrev, _ := cmd.Flags().GetBool("no-abbrev")
			withMetrics, _ := cmd.Flags().GetBool("metrics")

			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				in = file
			}

			start := time.Now()
			ids, err := readIDs(cmd.Context(), in, rt.cfg.Sort.DecodeWorkers)
			if err != nil {
				return err
			}

			opts := []sortsupport.Option{
				sortsupport.WithThresholds(rt.cfg.Sort.Thresholds()),
				sortsupport.WithLogger(rt.logger),
			}
			var reg *prometheus.Registry
			var sm *metrics.SortMetrics
			if withMetrics {
				reg = prometheus.NewRegistry()
				sm = metrics.NewSortMetrics(reg)
				opts = append(opts, sortsupport.WithObserver(sm))
			}

			sorter := sortsupport.NewSorter(sortsupport.SorterConfig{
				DisableAbbreviation: noAbbrev || !rt.cfg.Sort.Abbreviate,
				Descending:          reverse,
			}, opts...)
			for _, id := range ids {
				if f.Match(id) {
					sorter.Add(id)
				}
			}
			res := sorter.Sort()

			w := bufio.NewWriter(cmd.OutOrStdout())
			var text [ulid.EncodedLen]byte
			for _, id := range res.IDs {
				ulid.Encode(text[:], id)
				w.Write(text[:])
				w.WriteByte('\n')
			}
			if err := w.Flush(); err != nil {
				return err
			}

			rt.logger.Info("sorted",
				log.Int("input", len(ids)),
				log.Int("output", len(res.IDs)),
				log.Bool("abbreviated", res.Abbreviated),
				log.Str("state", res.State.String()),
				log.Int("full_comparisons", res.FullComparisons),
				log.Duration("elapsed", time.Since(start)),
			)
			if sm != nil {
				sm.ObserveResult(res)
				return metrics.WriteText(cmd.ErrOrStderr(), reg)
			}
			return nil
		},
	}
	sortCmd.Flags().BoolP("reverse", "r", false, "Sort in descending order")
	sortCmd.Flags().String("filter", "", "CEL expression selecting which ULIDs to keep")
	sortCmd.Flags().Bool("no-abbrev", false, "Compare full values only")
	sortCmd.Flags().Bool("metrics", false, "Write sort metrics to stderr")
	return sortCmd
}

// readIDs reads one ULID per line, ignoring blank lines, and decodes them
// with up to workers goroutines. The result keeps input order.
func readIDs(ctx context.Context, r io.Reader, workers int) ([]ulid.ULID, error) {
	type line struct {
		no   int
		text string
	}
	var lines []line
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			lines = append(lines, line{no: n, text: s})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	ids := make([]ulid.ULID, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for lo := 0; lo < len(lines); lo += decodeChunk {
		lo := lo
		hi := min(lo+decodeChunk, len(lines))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				id, err := ulid.Parse(lines[i].text)
				if err != nil {
					return fmt.Errorf("line %d: %w", lines[i].no, err)
				}
				ids[i] = id
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}
