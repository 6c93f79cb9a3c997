package main

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thegostep/uniswap-v2-helper/internal/config"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List configured networks and their protocol addresses",
	RunE:  runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, len(cfg.Networks))
	for id := range cfg.Networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		net := cfg.Networks[id]
		fmt.Printf("chain %d\n", id)
		fmt.Printf("  router:    %s\n", net.Router)
		fmt.Printf("  factory:   %s\n", net.Factory)
		if net.Multicall != "" {
			fmt.Printf("  multicall: %s\n", net.Multicall)
		}
	}
	return nil
}
