package models

import (
	"strings"

	"caguard/internal/zk/groth16"
)

// HolderID identifies the CA holder whose guardians are approving.
type HolderID string

func (h HolderID) String() string { return string(h) }

func (h HolderID) IsNil() bool { return strings.TrimSpace(string(h)) == "" }

// GuardianKey is the identity a claim is matched on.
type GuardianKey struct {
	Type           GuardianType
	IdentifierHash Hash
	VerifierID     Hash
}

// Guardian is a registered approval factor of one holder.
type Guardian struct {
	IdentifierHash         Hash         `json:"identifier_hash"`
	Type                   GuardianType `json:"type"`
	VerifierID             Hash         `json:"verifier_id"`
	Salt                   string       `json:"salt,omitempty"`
	IsLoginGuardian        bool         `json:"is_login_guardian,omitempty"`
	ZkLoginInfo            *ZkLoginInfo `json:"zk_login_info,omitempty"`
	PoseidonIdentifierHash string       `json:"poseidon_identifier_hash,omitempty"`
	ManuallySupportForZk   bool         `json:"manually_support_for_zk,omitempty"`
}

func (g Guardian) Key() GuardianKey {
	return GuardianKey{Type: g.Type, IdentifierHash: g.IdentifierHash, VerifierID: g.VerifierID}
}

// VerificationInfo carries a verifier server's signature over a verification
// document.
type VerificationInfo struct {
	ID                   Hash   `json:"id"`
	Signature            []byte `json:"signature"`
	VerificationDocument string `json:"verification_doc"`
}

// NoncePayload is what a zk nonce commits to: the manager being added and when.
type NoncePayload struct {
	Timestamp      int64   `json:"timestamp"`
	ManagerAddress Address `json:"manager_address"`
}

// ZkLoginInfo is the zk material of a claim.
type ZkLoginInfo struct {
	Issuer       string        `json:"issuer"`
	Kid          string        `json:"kid"`
	Nonce        string        `json:"nonce"`
	Salt         []byte        `json:"salt"`
	CircuitID    string        `json:"circuit_id"`
	NoncePayload NoncePayload  `json:"nonce_payload"`
	Proof        groth16.Proof `json:"zk_proof"`
}

// HasZkMaterial reports whether every field the zk protocol reads is present.
func (z *ZkLoginInfo) HasZkMaterial() bool {
	if z == nil {
		return false
	}
	return z.Issuer != "" &&
		z.Kid != "" &&
		z.Nonce != "" &&
		z.CircuitID != "" &&
		len(z.Salt) > 0 &&
		z.Proof.WellFormed()
}

// GuardianClaim is one guardian's assertion of approval for a single call.
type GuardianClaim struct {
	IdentifierHash   Hash             `json:"identifier_hash"`
	Type             GuardianType     `json:"type"`
	VerificationInfo VerificationInfo `json:"verification_info"`
	ZkLoginInfo      *ZkLoginInfo     `json:"zk_login_info,omitempty"`
}

// Key matches the claim against registered guardians; the verifier id is the
// one named in the verification info.
func (c GuardianClaim) Key() GuardianKey {
	return GuardianKey{Type: c.Type, IdentifierHash: c.IdentifierHash, VerifierID: c.VerificationInfo.ID}
}

// UsesZk reports whether the claim is routed to the zk protocol.
func (c GuardianClaim) UsesZk() bool {
	return c.Type.IsZkCapable() && c.ZkLoginInfo.HasZkMaterial()
}

// VerifierServer is a registered off-chain signer of verification documents.
type VerifierServer struct {
	ID        Hash
	Name      string
	Addresses []Address
	Endpoints []string
}

// HasAddress reports whether addr is one of the server's signing addresses.
func (v VerifierServer) HasAddress(addr Address) bool {
	for _, a := range v.Addresses {
		if a == addr {
			return true
		}
	}
	return false
}
