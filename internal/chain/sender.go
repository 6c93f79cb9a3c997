package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the key that authorizes transactions.
type Signer struct {
	key  *ecdsa.PrivateKey
	from common.Address
}

// NewSigner parses a hex-encoded private key, with or without 0x prefix.
func NewSigner(pkHex string) (*Signer, error) {
	pkHex = strings.TrimPrefix(strings.TrimSpace(pkHex), "0x")
	if pkHex == "" {
		return nil, errors.New("empty private key")
	}
	key, err := crypto.HexToECDSA(pkHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &Signer{key: key, from: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

func (s *Signer) Address() common.Address { return s.from }

// Sender builds, signs and submits EIP-1559 transactions for one signer.
type Sender struct {
	b        Backend
	signer   *Signer
	chainID  *big.Int
	gasLimit uint64
	poll     time.Duration
}

// NewSender resolves the chain ID once. gasLimit is the fallback when
// eth_estimateGas fails; zero selects 400k.
func NewSender(ctx context.Context, b Backend, signer *Signer, gasLimit uint64) (*Sender, error) {
	chainID, err := b.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if gasLimit == 0 {
		gasLimit = 400_000
	}
	return &Sender{b: b, signer: signer, chainID: chainID, gasLimit: gasLimit, poll: time.Second}, nil
}

func (s *Sender) From() common.Address { return s.signer.from }

// Send signs and submits a transaction carrying data to the contract at to.
func (s *Sender) Send(ctx context.Context, to common.Address, data []byte) (*gethtypes.Transaction, error) {
	tip, err := s.b.SuggestGasTipCap(ctx)
	if err != nil || tip == nil {
		tip = big.NewInt(2_000_000_000)
	}
	var baseFee *big.Int
	if h, _ := s.b.HeaderByNumber(ctx, nil); h != nil && h.BaseFee != nil {
		baseFee = new(big.Int).Set(h.BaseFee)
	} else if sp, _ := s.b.SuggestGasPrice(ctx); sp != nil {
		baseFee = sp
	} else {
		baseFee = big.NewInt(5_000_000_000)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)

	nonce, err := s.b.PendingNonceAt(ctx, s.signer.from)
	if err != nil {
		return nil, fmt.Errorf("pending nonce: %w", err)
	}

	gas, err := s.b.EstimateGas(ctx, ethereum.CallMsg{From: s.signer.from, To: &to, Data: data})
	if err != nil || gas == 0 {
		gas = s.gasLimit
	}

	tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		To:        &to,
		Gas:       gas,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
		Value:     big.NewInt(0),
	})
	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(s.chainID), s.signer.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if err := s.b.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}
	return signed, nil
}

// WaitMined polls for the transaction receipt until the context is done.
func (s *Sender) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		receipt, err := s.b.TransactionReceipt(ctx, tx.Hash())
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt %s: %w", tx.Hash().Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait mined %s: %w", tx.Hash().Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
