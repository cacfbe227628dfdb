package zklogin

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"caguard/internal/guardian/models"
)

// Modulus limb layout expected by the circuit.
const (
	LimbCount = 17
	LimbBits  = 121
)

// ComputeNonce is the nonce a client embeds in the OIDC request when adding
// manager at timestamp (unix seconds).
func ComputeNonce(timestamp int64, manager models.Address) string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(timestamp, 10) + manager.String()))
	return hex.EncodeToString(sum[:])
}

// ModulusLimbs decodes a base64url RSA modulus and splits it into LimbCount
// limbs of LimbBits bits, least significant first, as decimal strings.
func ModulusLimbs(modulus string) ([]string, error) {
	raw, err := decodeBase64URL(modulus)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	n := new(big.Int).SetBytes(raw)
	if n.Sign() == 0 {
		return nil, fmt.Errorf("modulus is zero")
	}
	if n.BitLen() > LimbCount*LimbBits {
		return nil, fmt.Errorf("modulus has %d bits, at most %d fit", n.BitLen(), LimbCount*LimbBits)
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), LimbBits), big.NewInt(1))
	limbs := make([]string, LimbCount)
	for i := range limbs {
		limb := new(big.Int).And(n, mask)
		limbs[i] = limb.String()
		n.Rsh(n, LimbBits)
	}
	return limbs, nil
}

func decodeBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(s), "="))
}

// PublicInputs assembles the circuit's public inputs: identifier-hash bytes,
// nonce character codes, modulus limbs, salt bytes.
func PublicInputs(identifier models.Hash, nonce, modulus string, salt []byte) ([]string, error) {
	limbs, err := ModulusLimbs(modulus)
	if err != nil {
		return nil, err
	}
	inputs := make([]string, 0, len(identifier)+len(nonce)+len(limbs)+len(salt))
	for _, b := range identifier {
		inputs = append(inputs, strconv.Itoa(int(b)))
	}
	for _, r := range nonce {
		inputs = append(inputs, strconv.Itoa(int(r)))
	}
	inputs = append(inputs, limbs...)
	for _, b := range salt {
		inputs = append(inputs, strconv.Itoa(int(b)))
	}
	return inputs, nil
}
