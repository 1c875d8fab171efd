// Command powsim drives an in-process simulation of a proof-of-work
// network: a handful of nodes, a randomly chosen validator, and a loop of
// transactions and mined blocks.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/powsim/powsim/pkg/config"
	"github.com/powsim/powsim/pkg/consensus"
	"github.com/powsim/powsim/pkg/monitoring"
	"github.com/powsim/powsim/pkg/network"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "powsim",
		Short: "powsim - a proof-of-work blockchain network simulator",
		Long: `powsim simulates a small peer-to-peer network of nodes that mine
proof-of-work blocks, exchange transactions through a shared mempool, and
can be used to observe how the network reacts to a dishonest validator.`,
		RunE: runSimulation,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(manipulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	monitoring.SetGlobalLevel(logLevelFor(cfg.LogLevel))
	log := monitoring.NewLogger(logLevelFor(cfg.LogLevel)).WithField("component", "main")

	net := network.New(consensus.Params{
		Difficulty:   cfg.Difficulty,
		MiningReward: cfg.MiningReward,
	})

	ids := make([]int, 0, cfg.NodeCount)
	for i := 0; i < cfg.NodeCount; i++ {
		id, err := net.AddNode()
		if err != nil {
			return fmt.Errorf("add node: %w", err)
		}
		ids = append(ids, id)
	}

	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if err := net.Connect(a, b); err != nil {
				return fmt.Errorf("connect nodes: %w", err)
			}
		}
	}

	log.Infof("network ready with %d nodes", len(ids))

	if _, err := net.SelectRandomValidator(); err != nil {
		return fmt.Errorf("select validator: %w", err)
	}

	if _, err := net.MineBlock(); err != nil {
		return fmt.Errorf("mine genesis block: %w", err)
	}

	for round := 0; round < 5; round++ {
		sender := ids[rand.Intn(len(ids))]
		recipient := ids[rand.Intn(len(ids))]
		if sender == recipient {
			continue
		}

		recipientNode, ok := net.Node(recipient)
		if !ok {
			continue
		}

		if _, err := net.CreateTransaction(sender, recipientNode.Address(), 1_0000_0000); err != nil {
			log.Warnf("round %d: transaction failed: %v", round, err)
			continue
		}

		if _, err := net.SelectRandomValidator(); err != nil {
			return fmt.Errorf("select validator: %w", err)
		}
		if _, err := net.MineBlock(); err != nil {
			log.Warnf("round %d: mining failed: %v", round, err)
			continue
		}

		time.Sleep(cfg.MineInterval)
	}

	for _, id := range ids {
		n, ok := net.Node(id)
		if !ok {
			continue
		}
		log.Infof("node %d: address=%s balance=%d chain_length=%d", id, n.Address(), n.Balance(), len(n.Chain()))
	}

	return nil
}

func manipulateCmd() *cobra.Command {
	var nodeID int
	var customHash string

	cmd := &cobra.Command{
		Use:   "manipulate",
		Short: "attempt to tamper with a running node's chain tip (for demonstration)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			net := network.New(consensus.Params{
				Difficulty:   cfg.Difficulty,
				MiningReward: cfg.MiningReward,
			})

			for i := 0; i < cfg.NodeCount; i++ {
				if _, err := net.AddNode(); err != nil {
					return err
				}
			}
			if _, err := net.SelectRandomValidator(); err != nil {
				return err
			}
			if _, err := net.MineBlock(); err != nil {
				return err
			}

			accepted, err := net.TryManipulateBlockchain(nodeID, customHash)
			if err != nil {
				return fmt.Errorf("manipulate: %w", err)
			}

			if accepted {
				fmt.Printf("manipulation of node %d succeeded: the network accepted it\n", nodeID)
			} else {
				fmt.Printf("manipulation of node %d was rejected by network consensus\n", nodeID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&nodeID, "node", 0, "id of the node to tamper with")
	cmd.Flags().StringVar(&customHash, "hash", "", "hash to try forcing onto the tampered block (optional)")
	return cmd
}

func logLevelFor(level string) monitoring.LogLevel {
	switch level {
	case "debug":
		return monitoring.DEBUG
	case "warn":
		return monitoring.WARN
	case "error":
		return monitoring.ERROR
	default:
		return monitoring.INFO
	}
}
