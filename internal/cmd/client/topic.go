// Package client contains Cobra CLI commands for talking to a running
// mirror node.
package client

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	mirrorv1 "github.com/ivorypay-org/ivorypay-hedera-node/api/mirror/v1"
)

// NewTopicCommand constructs the `topic` command group and subcommands.
func NewTopicCommand() *cobra.Command {
	topicCmd := &cobra.Command{Use: "topic", Short: "Topic operations"}
	topicCmd.AddCommand(newTopicSubscribeCommand())
	return topicCmd
}

func newTopicSubscribeCommand() *cobra.Command {
	subCmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Subscribe to a topic's message stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			topicNum, _ := cmd.Flags().GetInt64("topic")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			limit, _ := cmd.Flags().GetUint64("limit")

			startNs, err := parseTimeNs(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			var endNs int64
			if end != "" {
				if endNs, err = parseTimeNs(end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return err
			}
			defer conn.Close()

			stream, err := mirrorv1.NewConsensusServiceClient(conn).SubscribeTopic(ctx, &mirrorv1.ConsensusTopicQuery{
				TopicNum:           topicNum,
				ConsensusStartTime: startNs,
				ConsensusEndTime:   endNs,
				Limit:              limit,
			})
			if err != nil {
				return err
			}
			for {
				resp, err := stream.Recv()
				if err != nil {
					if errors.Is(err, io.EOF) || ctx.Err() != nil {
						return nil
					}
					return err
				}
				fmt.Printf("seq=%d ts=%s message=%s\n",
					resp.GetSequenceNumber(),
					time.Unix(0, resp.GetConsensusTimestamp()).UTC().Format(time.RFC3339Nano),
					base64.StdEncoding.EncodeToString(resp.GetMessage()),
				)
			}
		},
	}
	subCmd.Flags().String("addr", "127.0.0.1:5600", "Mirror node gRPC address")
	subCmd.Flags().Int64("topic", 0, "Topic entity number")
	subCmd.Flags().String("start", "0", "Start time: epoch ns or RFC3339 (inclusive)")
	subCmd.Flags().String("end", "", "End time: epoch ns or RFC3339 (exclusive, optional)")
	subCmd.Flags().Uint64("limit", 0, "Maximum messages to receive (0 = unbounded)")
	return subCmd
}

func parseTimeNs(s string) (int64, error) {
	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ns, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("expected epoch ns or RFC3339 timestamp")
	}
	return t.UnixNano(), nil
}
