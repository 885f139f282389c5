package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urgent2kay/dashboard-core/internal/errs"
	"github.com/urgent2kay/dashboard-core/internal/model"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Wallet connection and balances",
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wallet state and balances",
	RunE:  runWalletStatus,
}

var walletConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the configured wallet",
	RunE:  runWalletConnect,
}

var walletDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect and clear wallet state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a.bridge.Disconnect()
		successf("wallet disconnected")
		return nil
	},
}

var walletSwitchCmd = &cobra.Command{
	Use:   "switch-network",
	Short: "Switch the wallet to the expected network",
	RunE:  runWalletSwitch,
}

func init() {
	walletCmd.AddCommand(walletStatusCmd, walletConnectCmd, walletDisconnectCmd, walletSwitchCmd)
	rootCmd.AddCommand(walletCmd)
}

func runWalletStatus(cmd *cobra.Command, args []string) error {
	snap := a.bridge.Snapshot()
	fmt.Printf("state: %s\n", snap.State)

	if !snap.State.Connected() {
		if last := a.bridge.LastKnownAddress(); last != "" {
			fmt.Printf("last known address: %s\n", last)
		}
		if snap.LastError != "" {
			warnf("last error: %s", snap.LastError)
		}
		return nil
	}

	fmt.Printf("address: %s\nchain: %s\n", snap.Address, snap.ChainID)
	if !snap.IsCorrectNetwork {
		warnf("connected to the wrong network; run: u2kctl wallet switch-network")
	}
	fmt.Printf("eth: %s\nu2k: %s\n", snap.EthBalance, snap.U2KBalance)
	return nil
}

func runWalletConnect(cmd *cobra.Command, args []string) error {
	if err := a.bridge.Watch(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	err := a.bridge.Connect(ctx)
	if err != nil && !errors.Is(err, errs.ErrWrongNetwork) {
		return err
	}
	snap := a.bridge.Snapshot()
	successf("connected %s on chain %s", snap.Address, snap.ChainID)
	if snap.State == model.WalletConnectedWrongNetwork {
		warnf("wrong network; run: u2kctl wallet switch-network")
	}
	return nil
}

func runWalletSwitch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
	defer cancel()

	if err := a.bridge.SwitchNetwork(ctx); err != nil {
		return err
	}
	successf("switched to chain %s", a.cfg.Wallet.ExpectedChainID)
	return nil
}
