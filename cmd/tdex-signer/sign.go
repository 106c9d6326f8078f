package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var sign = cli.Command{
	Name:  "sign",
	Usage: "sign a message with the key bound to an address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "message",
			Usage:    "the message to sign, either plain text or 0x-prefixed hex",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address the signing key is bound to",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "origin",
			Usage: "overrides the origin of the local state",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait for the daemon, consent dialog included",
			Value: 2 * time.Minute,
		},
	},
	Action: signAction,
}

var verify = cli.Command{
	Name:  "verify",
	Usage: "verify a signature offline",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "message",
			Usage:    "the signed message, either plain text or 0x-prefixed hex",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "signature",
			Usage:    "the 0x-prefixed DER signature",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pubkey",
			Usage:    "the hex encoded public key of the signing key",
			Required: true,
		},
	},
	Action: verifyAction,
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Origin  string      `json:"origin,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func signAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}
	address, ok := state[rpcServerKey]
	if !ok {
		return errors.New("set rpcserver with `config set rpcserver`")
	}
	origin := ctx.String("origin")
	if len(origin) <= 0 {
		origin = state["origin"]
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context, ctx.Duration("timeout"))
	defer cancel()

	result, err := callRPC(reqCtx, address, rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Origin:  origin,
		Method:  "personal_sign",
		Params:  []string{ctx.String("message"), ctx.String("address")},
	})
	if err != nil {
		return err
	}

	var signature string
	if err := json.Unmarshal(result, &signature); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}

	printRespJSON(map[string]string{"signature": signature})
	return nil
}

func callRPC(ctx context.Context, address string, req rpcRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := address
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, strings.TrimSuffix(url, "/")+"/rpc", bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to RPC server: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RPC server returned status %s", httpResp.Status)
	}

	resp := rpcResponse{}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

func verifyAction(ctx *cli.Context) error {
	buf, err := decodeHex(ctx.String("pubkey"))
	if err != nil {
		return fmt.Errorf("invalid pubkey: %w", err)
	}
	pubkey, err := btcec.ParsePubKey(buf)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %w", err)
	}

	valid, err := wallet.VerifyMessage(wallet.VerifyMessageOpts{
		Message:   ctx.String("message"),
		Signature: ctx.String("signature"),
		PublicKey: pubkey,
	})
	if err != nil {
		return err
	}

	printRespJSON(map[string]bool{"valid": valid})
	return nil
}

func decodeHex(str string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(str, "0x"))
}
