package signature

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"caguard/internal/guardian/models"
)

// Length of a recoverable signature: r (32) ‖ s (32) ‖ recovery id (1).
const Length = 65

// compactMagic is the header offset of the compact format decred expects
// ([27+v] ‖ r ‖ s) for signatures over uncompressed keys.
const compactMagic = 27

var errBadSignature = errors.New("bad signature")

// Digest is the message a verifier server signs: sha256 of the document text.
func Digest(document string) []byte {
	sum := sha256.Sum256([]byte(document))
	return sum[:]
}

// RecoverAddress recovers the address of the key that produced sig over
// digest. The recovery id may be given as 0..3 or 27..30.
func RecoverAddress(sig, digest []byte) (models.Address, error) {
	if len(sig) != Length {
		return models.Address{}, fmt.Errorf("%w: length %d", errBadSignature, len(sig))
	}
	v := sig[Length-1]
	if v >= compactMagic {
		v -= compactMagic
	}
	if v > 3 {
		return models.Address{}, fmt.Errorf("%w: recovery id %d", errBadSignature, sig[Length-1])
	}

	compact := make([]byte, Length)
	compact[0] = compactMagic + v
	copy(compact[1:], sig[:Length-1])

	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return models.Address{}, fmt.Errorf("%w: %v", errBadSignature, err)
	}
	return models.AddressFromPublicKey(pub.SerializeUncompressed()), nil
}

// Sign produces the r ‖ s ‖ v signature a verifier server attaches to
// document.
func Sign(key *secp256k1.PrivateKey, document string) []byte {
	compact := ecdsa.SignCompact(key, Digest(document), false)
	sig := make([]byte, Length)
	copy(sig, compact[1:])
	sig[Length-1] = compact[0] - compactMagic
	return sig
}

// AddressOf returns the address of key's public half.
func AddressOf(key *secp256k1.PrivateKey) models.Address {
	return models.AddressFromPublicKey(key.PubKey().SerializeUncompressed())
}
