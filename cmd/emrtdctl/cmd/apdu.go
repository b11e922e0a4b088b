package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/spf13/cobra"
)

// apduCmd groups raw command/response APDU encode/decode utilities.
var apduCmd = &cobra.Command{
	Use:   "apdu",
	Short: "Encode and decode ISO/IEC 7816-4 APDUs",
}

var (
	apduCLA  string
	apduINS  string
	apduP1   string
	apduP2   string
	apduData string
	apduLe   int
)

var apduEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a command APDU from its header fields",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cla, err := parseHexByte(apduCLA)
		if err != nil {
			return fmt.Errorf("invalid CLA: %w", err)
		}
		ins, err := parseHexByte(apduINS)
		if err != nil {
			return fmt.Errorf("invalid INS: %w", err)
		}
		p1, err := parseHexByte(apduP1)
		if err != nil {
			return fmt.Errorf("invalid P1: %w", err)
		}
		p2, err := parseHexByte(apduP2)
		if err != nil {
			return fmt.Errorf("invalid P2: %w", err)
		}

		data, err := hex.DecodeString(apduData)
		if err != nil {
			return fmt.Errorf("invalid data hex: %w", err)
		}

		c := &apdu.Command{CLA: cla, INS: ins, P1: p1, P2: p2, Data: data, RxLen: apduLe}

		cmd.Println(fmt.Sprintf("% X", c.Bytes()))

		return nil
	},
}

var apduDecodeCmd = &cobra.Command{
	Use:   "decode HEX",
	Short: "Decode a raw command or response APDU",
	Long: `Decode tries to parse HEX as a command APDU (CLA INS P1 P2 [Lc data] [Le]);
pass --response to parse it as a response APDU (data trailing SW1 SW2) instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}

		asResponse, _ := cmd.Flags().GetBool("response")
		if asResponse {
			res := apdu.ParseResponse(raw)
			cmd.Println(res.String())

			return nil
		}

		c, err := apdu.ParseCommand(raw)
		if err != nil {
			return err
		}

		cmd.Printf("CLA: 0x%02X  INS: 0x%02X  P1: 0x%02X  P2: 0x%02X  Le: %d\n", c.CLA, c.INS, c.P1, c.P2, c.RxLen)
		if len(c.Data) > 0 {
			cmd.Printf("Data: % X\n", c.Data)
		}

		return nil
	},
}

func parseHexByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}

	return byte(v), nil
}

func init() {
	rootCmd.AddCommand(apduCmd)
	apduCmd.AddCommand(apduEncodeCmd)
	apduCmd.AddCommand(apduDecodeCmd)

	apduEncodeCmd.Flags().StringVar(&apduCLA, "cla", "00", "class byte, hex")
	apduEncodeCmd.Flags().StringVar(&apduINS, "ins", "", "instruction byte, hex")
	apduEncodeCmd.Flags().StringVar(&apduP1, "p1", "00", "P1 byte, hex")
	apduEncodeCmd.Flags().StringVar(&apduP2, "p2", "00", "P2 byte, hex")
	apduEncodeCmd.Flags().StringVar(&apduData, "data", "", "command data, hex")
	apduEncodeCmd.Flags().IntVar(&apduLe, "le", 0, "expected response length (0 = no Le field)")

	if err := apduEncodeCmd.MarkFlagRequired("ins"); err != nil {
		panic(err)
	}

	apduDecodeCmd.Flags().Bool("response", false, "decode HEX as a response APDU instead of a command")
}
