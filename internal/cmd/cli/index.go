package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dcbickfo/pg-ulid/internal/config"
	"github.com/dcbickfo/pg-ulid/internal/filter"
	"github.com/dcbickfo/pg-ulid/internal/metrics"
	pebblestore "github.com/dcbickfo/pg-ulid/internal/storage/pebble"
	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// newIndexCommand constructs the `index` command group and subcommands.
func newIndexCommand(rt *app) *cobra.Command {
	indexCmd := &cobra.Command{Use: "index", Short: "Store and scan values keyed by ULID"}
	indexCmd.PersistentFlags().String("data-dir", "", "Index directory (default from config)")
	indexCmd.PersistentFlags().Bool("metrics", false, "Write storage metrics to stderr")

	indexCmd.AddCommand(
		newIndexPutCommand(rt),
		newIndexGetCommand(rt),
		newIndexScanCommand(rt),
	)
	return indexCmd
}

// withIndex opens the index for the duration of fn.
func withIndex(cmd *cobra.Command, rt *app, fn func(*pebblestore.Index) error) error {
	dir, _ := cmd.Flags().GetString("data-dir")
	withMetrics, _ := cmd.Flags().GetBool("metrics")
	if dir == "" {
		dir = config.ResolveIndexDir(rt.cfg)
	}
	mode, err := pebblestore.ParseFsyncMode(rt.cfg.Index.Fsync)
	if err != nil {
		return err
	}

	opts := pebblestore.Options{
		DataDir:       dir,
		Fsync:         mode,
		FsyncInterval: time.Duration(rt.cfg.Index.FsyncIntervalMs) * time.Millisecond,
		Logger:        rt.logger,
	}
	var reg *prometheus.Registry
	if withMetrics {
		reg = prometheus.NewRegistry()
		opts.Metrics = metrics.NewStoreMetrics(reg)
	}

	db, err := pebblestore.Open(opts)
	if err != nil {
		return fmt.Errorf("open index %s: %w", dir, err)
	}
	err = fn(pebblestore.NewIndex(db))
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	if err == nil && reg != nil {
		err = metrics.WriteText(cmd.ErrOrStderr(), reg)
	}
	return err
}

// newIndexPutCommand constructs the `index put` subcommand.
func newIndexPutCommand(rt *app) *cobra.Command {
	putCmd := &cobra.Command{
		Use:   "put [ulid]...",
		Short: "Store a value under the given ULIDs, or under a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, _ := cmd.Flags().GetString("value")
			items := make([]pebblestore.Item, 0, max(len(args), 1))
			for _, arg := range args {
				id, err := ulid.Parse(arg)
				if err != nil {
					return fmt.Errorf("put %q: %w", arg, err)
				}
				items = append(items, pebblestore.Item{ID: id, Value: []byte(value)})
			}
			if len(items) == 0 {
				id, err := ulid.New()
				if err != nil {
					return err
				}
				items = append(items, pebblestore.Item{ID: id, Value: []byte(value)})
			}
			return withIndex(cmd, rt, func(ix *pebblestore.Index) error {
				var err error
				if len(items) == 1 {
					err = ix.Put(cmd.Context(), items[0].ID, items[0].Value)
				} else {
					err = ix.PutBatch(cmd.Context(), items)
				}
				if err != nil {
					return err
				}
				for _, it := range items {
					fmt.Fprintln(cmd.OutOrStdout(), it.ID)
				}
				return nil
			})
		},
	}
	putCmd.Flags().String("value", "", "Value to store")
	return putCmd
}

// newIndexGetCommand constructs the `index get` subcommand.
func newIndexGetCommand(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <ulid>",
		Short: "Print the value stored under a ULID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ulid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("get %q: %w", args[0], err)
			}
			return withIndex(cmd, rt, func(ix *pebblestore.Index) error {
				v, err := ix.Get(id)
				if err != nil {
					return err
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(decodedItem(id, v))
			})
		},
	}
}

// newIndexScanCommand constructs the `index scan` subcommand.
func newIndexScanCommand(rt *app) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "List stored ULIDs in time order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sinceFlag, _ := cmd.Flags().GetString("since")
			untilFlag, _ := cmd.Flags().GetString("until")
			reverse, _ := cmd.Flags().GetBool("reverse")
			limit, _ := cmd.Flags().GetInt("limit")
			expr, _ := cmd.Flags().GetString("filter")

			since, err := parseTimeFlag("since", sinceFlag)
			if err != nil {
				return err
			}
			until, err := parseTimeFlag("until", untilFlag)
			if err != nil {
				return err
			}
			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			return withIndex(cmd, rt, func(ix *pebblestore.Index) error {
				return ix.Scan(cmd.Context(), pebblestore.ScanOptions{
					Since:   since,
					Until:   until,
					Reverse: reverse,
					Limit:   limit,
					Filter:  f,
				}, func(id ulid.ULID, v []byte) error {
					return enc.Encode(decodedItem(id, v))
				})
			})
		},
	}
	scanCmd.Flags().String("since", "", "Inclusive lower bound: RFC3339 or ms")
	scanCmd.Flags().String("until", "", "Exclusive upper bound: RFC3339 or ms")
	scanCmd.Flags().Bool("reverse", false, "Newest first")
	scanCmd.Flags().Int("limit", 0, "Stop after N items (0 = all)")
	scanCmd.Flags().String("filter", "", "CEL expression selecting which ULIDs to list")
	return scanCmd
}

// parseTimeFlag accepts milliseconds since the epoch or RFC3339. Empty
// yields the zero time.
func parseTimeFlag(name, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --%s; expected ms or RFC3339", name)
}

// decodedItem returns a map with id and time plus one of payload_json,
// payload_text, or payload_b64.
func decodedItem(id ulid.ULID, payload []byte) map[string]any {
	out := map[string]any{
		"id":   id.String(),
		"time": id.Time().Format(time.RFC3339Nano),
	}
	if len(payload) > 0 && (payload[0] == '{' || payload[0] == '[') {
		var v any
		if json.Unmarshal(payload, &v) == nil {
			out["payload_json"] = v
			return out
		}
	}
	if utf8.Valid(payload) {
		out["payload_text"] = string(payload)
		return out
	}
	out["payload_b64"] = base64.StdEncoding.EncodeToString(payload)
	return out
}
