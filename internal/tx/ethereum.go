package tx

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/helioswallet/helios/internal/chain"
	"github.com/helioswallet/helios/internal/keys"
	"github.com/helioswallet/helios/internal/walleterr"
)

// Gas limits used when the caller does not supply one.
const (
	DefaultGasLimit      = 21000 // plain ETH transfer
	DefaultTokenGasLimit = 65000 // ERC-20 transfer
)

// erc20TransferSelector is the 4-byte selector of transfer(address,uint256).
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

// buildEthereum constructs a legacy or EIP-1559 transaction depending on
// which fee fields the request populates. A request with neither GasPrice
// nor MaxFee is rejected: this layer never invents fee values.
func buildEthereum(req *Request) (*Unsigned, error) {
	const op = "tx.buildEthereum"

	if err := keys.ValidateEthereumAddress(req.From); err != nil {
		return nil, err
	}
	if err := keys.ValidateEthereumAddress(req.To); err != nil {
		return nil, err
	}

	value, err := parseAmount(req.Value, "value")
	if err != nil {
		return nil, err
	}

	params, ok := chain.Get(chain.KeyTypeEthereum, req.Network)
	if !ok {
		return nil, walleterr.Errorf(walleterr.Transaction, op,
			"no ethereum params for network %q", req.Network)
	}
	chainID := new(big.Int).SetUint64(params.ChainID)

	toAddr := common.HexToAddress(req.To)
	txValue := value
	data := req.Data

	if req.TokenAddr != "" {
		if err := keys.ValidateEthereumAddress(req.TokenAddr); err != nil {
			return nil, err
		}
		if len(req.Data) != 0 {
			return nil, walleterr.E(walleterr.Transaction, op,
				errors.New("token transfer and raw data are mutually exclusive"))
		}
		data = erc20TransferData(toAddr, value)
		toAddr = common.HexToAddress(req.TokenAddr)
		txValue = new(big.Int)
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		if req.TokenAddr != "" {
			gasLimit = DefaultTokenGasLimit
		} else {
			gasLimit = DefaultGasLimit
		}
	}

	var inner ethtypes.TxData
	switch {
	case req.MaxFee != "":
		maxFee, err := parseAmount(req.MaxFee, "max fee")
		if err != nil {
			return nil, err
		}
		maxTip := new(big.Int)
		if req.MaxTip != "" {
			if maxTip, err = parseAmount(req.MaxTip, "max tip"); err != nil {
				return nil, err
			}
		}
		if maxTip.Cmp(maxFee) > 0 {
			return nil, walleterr.E(walleterr.Transaction, op,
				errors.New("max tip exceeds max fee"))
		}
		inner = &ethtypes.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     req.Nonce,
			GasTipCap: maxTip,
			GasFeeCap: maxFee,
			Gas:       gasLimit,
			To:        &toAddr,
			Value:     txValue,
			Data:      data,
		}

	case req.GasPrice != "":
		gasPrice, err := parseAmount(req.GasPrice, "gas price")
		if err != nil {
			return nil, err
		}
		inner = &ethtypes.LegacyTx{
			Nonce:    req.Nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       &toAddr,
			Value:    txValue,
			Data:     data,
		}

	default:
		return nil, walleterr.E(walleterr.Transaction, op,
			errors.New("missing fee fields: set GasPrice or MaxFee"))
	}

	return &Unsigned{
		KeyType:    chain.KeyTypeEthereum,
		ethTx:      ethtypes.NewTx(inner),
		ethChainID: chainID,
	}, nil
}

// erc20TransferData ABI-encodes a transfer(address,uint256) call.
func erc20TransferData(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 4+32+32)
	copy(data, erc20TransferSelector)
	copy(data[4+12:36], to.Bytes())
	amount.FillBytes(data[36:68])
	return data
}

func signEthereum(u *Unsigned, kp *keys.KeyPair) (*Signed, error) {
	const op = "tx.signEthereum"

	priv, err := ethcrypto.ToECDSA(kp.PrivateKey)
	if err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	signer := ethtypes.LatestSignerForChainID(u.ethChainID)
	signed, err := ethtypes.SignTx(u.ethTx, signer, priv)
	if err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, walleterr.E(walleterr.Signing, op, err)
	}

	return &Signed{
		KeyType: chain.KeyTypeEthereum,
		Raw:     raw,
		Hash:    signed.Hash().Hex(),
	}, nil
}
