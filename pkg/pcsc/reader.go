// Package pcsc adapts a PC/SC smart card reader into the transport the bac
// and files packages expect: Transmit and Transceive over a connected card.
// Both accept a context, but it does not cancel or time out a transmit.
package pcsc

import (
	"context"

	"github.com/andrei-cloud/go-emrtd/pkg/apdu"
	"github.com/andrei-cloud/go-emrtd/pkg/emrtderr"
	"github.com/ebfe/scard"
)

// Reader is a connected PC/SC reader slot holding one eMRTD chip.
type Reader struct {
	ctx  *scard.Context
	card *scard.Card
	name string
	atr  []byte
}

// ListReaders enumerates the PC/SC reader names the local subsystem knows
// about, connected card or not.
func ListReaders() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to establish PC/SC context", err)
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to list PC/SC readers", err)
	}

	return readers, nil
}

// Connect opens a shared connection to the card seated in the reader at
// readerIndex, as reported by ListReaders.
func Connect(readerIndex int) (*Reader, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to establish PC/SC context", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil {
		ctx.Release()

		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to list PC/SC readers", err)
	}
	if len(readers) == 0 {
		ctx.Release()

		return nil, emrtderr.New(emrtderr.KindTransport, "no PC/SC readers found")
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		ctx.Release()

		return nil, emrtderr.New(emrtderr.KindTransport, "reader index out of range")
	}

	readerName := readers[readerIndex]

	card, err := ctx.Connect(readerName, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		ctx.Release()

		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to connect to card in reader '"+readerName+"'", err)
	}

	status, err := card.Status()
	if err != nil {
		card.Disconnect(scard.LeaveCard) //nolint:errcheck // best-effort cleanup on an already-failing path
		ctx.Release()

		return nil, emrtderr.Wrap(emrtderr.KindTransport, "failed to get card status", err)
	}

	return &Reader{ctx: ctx, card: card, name: readerName, atr: status.Atr}, nil
}

// ConnectFirst connects to the card in the first reader PC/SC reports.
func ConnectFirst() (*Reader, error) {
	return Connect(0)
}

// Transmit sends one raw APDU to the card and returns its raw response,
// trailer included. It satisfies files.Transport; Transceive wraps it to
// satisfy bac.Transceiver.
func (r *Reader) Transmit(_ context.Context, raw []byte) ([]byte, error) {
	response, err := r.card.Transmit(raw)
	if err != nil {
		return nil, emrtderr.Wrap(emrtderr.KindTransport, "APDU transmit failed", err)
	}

	return response, nil
}

// Transceive sends a plain command APDU and parses the card's response,
// satisfying bac.Transceiver for the unprotected BAC handshake exchange.
func (r *Reader) Transceive(ctx context.Context, cmd *apdu.Command) (apdu.Response, error) {
	raw, err := r.Transmit(ctx, cmd.Bytes())
	if err != nil {
		return apdu.Response{}, err
	}

	return apdu.ParseResponse(raw), nil
}

// Close releases the card connection and the PC/SC context.
func (r *Reader) Close() error {
	if r.card != nil {
		if err := r.card.Disconnect(scard.LeaveCard); err != nil {
			return emrtderr.Wrap(emrtderr.KindTransport, "failed to disconnect card", err)
		}
	}
	if r.ctx != nil {
		if err := r.ctx.Release(); err != nil {
			return emrtderr.Wrap(emrtderr.KindTransport, "failed to release PC/SC context", err)
		}
	}

	return nil
}

// Name reports the PC/SC reader name this connection was opened on.
func (r *Reader) Name() string {
	return r.name
}

// ATR returns the card's Answer To Reset bytes.
func (r *Reader) ATR() []byte {
	return r.atr
}
