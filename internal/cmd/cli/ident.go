package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// newGenCommand constructs the `gen` command.
func newGenCommand() *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate new ULIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, _ := cmd.Flags().GetInt("count")
			asUUID, _ := cmd.Flags().GetBool("uuid")
			if n < 1 {
				return fmt.Errorf("invalid --count %d", n)
			}
			gen := ulid.NewGenerator()
			out := cmd.OutOrStdout()
			for i := 0; i < n; i++ {
				id, err := gen.New()
				if err != nil {
					return err
				}
				if asUUID {
					fmt.Fprintln(out, id.UUID())
				} else {
					fmt.Fprintln(out, id)
				}
			}
			return nil
		},
	}
	genCmd.Flags().IntP("count", "n", 1, "Number of ULIDs to generate")
	genCmd.Flags().Bool("uuid", false, "Print in UUID form")
	return genCmd
}

type inspection struct {
	ULID        string `json:"ulid"`
	Time        string `json:"time"`
	TimestampMs uint64 `json:"timestamp_ms"`
	Entropy     string `json:"entropy"`
	UUID        string `json:"uuid"`
	Hash        uint32 `json:"hash"`
}

func inspect(id ulid.ULID) inspection {
	return inspection{
		ULID:        id.String(),
		Time:        id.Time().Format(time.RFC3339Nano),
		TimestampMs: id.Timestamp(),
		Entropy:     hex.EncodeToString(id.Entropy()),
		UUID:        id.UUID().String(),
		Hash:        ulid.Hash(id),
	}
}

// newInspectCommand constructs the `inspect` command.
func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <ulid>...",
		Short: "Show the timestamp, entropy and hash of ULIDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, arg := range args {
				id, err := ulid.Parse(arg)
				if err != nil {
					return fmt.Errorf("inspect %q: %w", arg, err)
				}
				if err := enc.Encode(inspect(id)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// newEncodeCommand constructs the `encode` command.
func newEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <hex|uuid>",
		Short: "Encode 16 bytes given as hex or UUID text into a ULID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("encode %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ulid.FromUUID(u))
			return nil
		},
	}
}

// newDecodeCommand constructs the `decode` command.
func newDecodeCommand() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode <ulid>",
		Short: "Decode a ULID into its 16 bytes as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asUUID, _ := cmd.Flags().GetBool("uuid")
			id, err := ulid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("decode %q: %w", args[0], err)
			}
			if asUUID {
				fmt.Fprintln(cmd.OutOrStdout(), id.UUID())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(id[:]))
			return nil
		},
	}
	decodeCmd.Flags().Bool("uuid", false, "Print in UUID form")
	return decodeCmd
}

// newHashCommand constructs the `hash` command.
func newHashCommand() *cobra.Command {
	hashCmd := &cobra.Command{
		Use:   "hash <ulid>",
		Short: "Print the 32-bit hash, or the seeded 64-bit hash with --seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ulid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("hash %q: %w", args[0], err)
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint64("seed")
				fmt.Fprintln(cmd.OutOrStdout(), ulid.HashExtended(id, seed))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ulid.Hash(id))
			return nil
		},
	}
	hashCmd.Flags().Uint64("seed", 0, "Seed for the extended 64-bit hash")
	return hashCmd
}
