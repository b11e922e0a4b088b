package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andrei-cloud/go-emrtd/pkg/files"
	"github.com/andrei-cloud/go-emrtd/pkg/mrz"
	"github.com/andrei-cloud/go-emrtd/pkg/simulator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	simulateMRZ     string
	simulateAddress string
)

// simulateCmd stands in for a physical eMRTD chip: it personalizes an
// in-process document from an MRZ and serves it over a TCP listener that
// speaks the same BAC and secure messaging protocol a reader drives against
// real hardware.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an in-process eMRTD chip simulator",
	Long: `Simulate starts a TCP listener that plays the chip side of BAC and
secure messaging against the MRZ supplied with --mrz, serving EF.COM and
EF.DG1 built from that MRZ, so a reader stack that talks to it over TCP has
something to authenticate against without a physical document. The read
command connects only to PC/SC readers and does not use this listener.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		address := cfg.Simulate.Address
		if simulateAddress != "" {
			address = simulateAddress
		}

		raw, err := mrz.ParseRaw(simulateMRZ)
		if err != nil {
			return fmt.Errorf("invalid MRZ: %w", err)
		}

		m, err := mrz.FromRaw(raw)
		if err != nil {
			return fmt.Errorf("invalid MRZ: %w", err)
		}

		doc := &simulator.Document{
			MRZ:   m,
			Files: buildDocumentFiles(m),
		}

		srv, err := simulator.NewServer(address, doc, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize simulator: %w", err)
		}

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start simulator: %w", err)
		}

		log.Info().Str("address", address).Str("document", m.DocumentNumber).Msg("simulator listening")

		stopChan := make(chan os.Signal, 1)
		signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-stopChan
		log.Info().Str("signal", sig.String()).Msg("shutting down simulator")

		if err := srv.Stop(); err != nil {
			log.Error().Err(err).Msg("error during simulator shutdown")

			return err
		}

		return nil
	},
}

// buildDocumentFiles assembles the EF.COM/EF.DG1 pair the BAC-only simulated
// document serves; no other catalogued file is present on it.
func buildDocumentFiles(m *mrz.MRZ) map[uint16][]byte {
	dg1 := encodeDG1(m.Render())
	efCom := encodeEFCOM()

	return map[uint16][]byte{
		files.EFCOM.FileID: efCom,
		files.EFDG1.FileID: dg1,
	}
}

// encodeDG1 wraps the rendered MRZ in DG1's application tag '61' containing
// tag '5F1F', per ICAO Doc 9303 Part 10 §4.7.
func encodeDG1(mrzText string) []byte {
	inner := append([]byte{0x5F, 0x1F, byte(len(mrzText))}, []byte(mrzText)...)

	return append(tlvHeader(0x61, len(inner)), inner...)
}

// encodeEFCOM builds a minimal EF.COM announcing LDS version 0107, Unicode
// version 040000, and DG1 as the only present data group.
func encodeEFCOM() []byte {
	ldsVersion := []byte{0x5F, 0x01, 0x04, '0', '1', '0', '7'}
	unicodeVersion := []byte{0x5F, 0x36, 0x06, '0', '4', '0', '0', '0', '0'}
	tagList := []byte{0x5C, 0x01, 0x61}

	inner := make([]byte, 0, len(ldsVersion)+len(unicodeVersion)+len(tagList))
	inner = append(inner, ldsVersion...)
	inner = append(inner, unicodeVersion...)
	inner = append(inner, tagList...)

	return append(tlvHeader(0x60, len(inner)), inner...)
}

func tlvHeader(tag byte, length int) []byte {
	if length < 0x80 {
		return []byte{tag, byte(length)}
	}

	return []byte{tag, 0x81, byte(length)}
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVar(&simulateMRZ, "mrz", "", "MRZ text to personalize the simulated document with")
	simulateCmd.Flags().StringVar(&simulateAddress, "address", "", "listen address (overrides config simulate.address)")

	if err := simulateCmd.MarkFlagRequired("mrz"); err != nil {
		panic(err)
	}

	viper.BindPFlag("simulate.address", simulateCmd.Flags().Lookup("address")) //nolint:errcheck // flag always registered above
}
