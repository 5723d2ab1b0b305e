// Command kybercop exercises the ML-KEM-768 coprocessor model from the
// command line: key generation, encapsulation, and decapsulation over
// hex-encoded inputs.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kybercop/pkg/kem"
)

var logger *zap.Logger

func decodeHex(name, s string, wantLen int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", name)
	}
	if len(b) != wantLen {
		return nil, errors.Errorf("%s is %d bytes, want %d", name, len(b), wantLen)
	}
	return b, nil
}

func newKeygenCmd() *cobra.Command {
	var seedD, seedZ string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Derive an ML-KEM-768 key pair from seeds d and z",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeHex("seed d", seedD, kem.SeedSize)
			if err != nil {
				return err
			}
			z, err := decodeHex("seed z", seedZ, kem.SeedSize)
			if err != nil {
				return err
			}
			ek, dk, err := kem.KeyGen(d, z)
			if err != nil {
				return err
			}
			logger.Info("key pair derived",
				zap.Int("ek_bytes", len(ek)), zap.Int("dk_bytes", len(dk)))
			fmt.Printf("ek=%x\ndk=%x\n", ek, dk)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedD, "seed-d", "", "32-byte key derivation seed, hex")
	cmd.Flags().StringVar(&seedZ, "seed-z", "", "32-byte implicit rejection seed, hex")
	cobra.CheckErr(cmd.MarkFlagRequired("seed-d"))
	cobra.CheckErr(cmd.MarkFlagRequired("seed-z"))
	return cmd
}

func newEncapsCmd() *cobra.Command {
	var ekHex, msgHex string
	cmd := &cobra.Command{
		Use:   "encaps",
		Short: "Encapsulate a 32-byte message against an encapsulation key",
		RunE: func(cmd *cobra.Command, args []string) error {
			ek, err := decodeHex("encapsulation key", ekHex, kem.EncapsulationKeySize)
			if err != nil {
				return err
			}
			m, err := decodeHex("message", msgHex, kem.MessageSize)
			if err != nil {
				return err
			}
			shared, ct, err := kem.Encaps(ek, m)
			if err != nil {
				return err
			}
			logger.Info("encapsulated", zap.Int("ct_bytes", len(ct)))
			fmt.Printf("c=%x\nk=%x\n", ct, shared)
			return nil
		},
	}
	cmd.Flags().StringVar(&ekHex, "ek", "", "1184-byte encapsulation key, hex")
	cmd.Flags().StringVar(&msgHex, "msg", "", "32-byte message, hex")
	cobra.CheckErr(cmd.MarkFlagRequired("ek"))
	cobra.CheckErr(cmd.MarkFlagRequired("msg"))
	return cmd
}

func newDecapsCmd() *cobra.Command {
	var dkHex, ctHex string
	cmd := &cobra.Command{
		Use:   "decaps",
		Short: "Decapsulate a ciphertext against a decapsulation key",
		RunE: func(cmd *cobra.Command, args []string) error {
			dk, err := decodeHex("decapsulation key", dkHex, kem.DecapsulationKeySize)
			if err != nil {
				return err
			}
			ct, err := decodeHex("ciphertext", ctHex, kem.CiphertextSize)
			if err != nil {
				return err
			}
			shared, err := kem.Decaps(dk, ct)
			if err != nil {
				return err
			}
			logger.Info("decapsulated")
			fmt.Printf("k=%x\n", shared)
			return nil
		},
	}
	cmd.Flags().StringVar(&dkHex, "dk", "", "2400-byte decapsulation key, hex")
	cmd.Flags().StringVar(&ctHex, "ct", "", "1088-byte ciphertext, hex")
	cobra.CheckErr(cmd.MarkFlagRequired("dk"))
	cobra.CheckErr(cmd.MarkFlagRequired("ct"))
	return cmd
}

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := &cobra.Command{
		Use:           "kybercop",
		Short:         "ML-KEM-768 polynomial coprocessor model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newKeygenCmd(), newEncapsCmd(), newDecapsCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
