package models

// RejectReason explains a soft rejection. Rejections are never errors; the
// reason only feeds logs, metrics and audit events.
type RejectReason string

const (
	ReasonNone RejectReason = ""

	// Verification-document signatures.
	ReasonEmptyDocument     RejectReason = "empty_document"
	ReasonMalformedDocument RejectReason = "malformed_document"
	ReasonLegacyDisabled    RejectReason = "legacy_document_disabled"
	ReasonSignatureReplayed RejectReason = "signature_replayed"
	ReasonExpired           RejectReason = "document_expired"
	ReasonIdentityMismatch  RejectReason = "identity_mismatch"
	ReasonBadSignature      RejectReason = "bad_signature"
	ReasonUnknownVerifier   RejectReason = "unknown_verifier"
	ReasonVerifierMismatch  RejectReason = "verifier_address_mismatch"
	ReasonOperationMismatch RejectReason = "operation_mismatch"
	ReasonChainMismatch     RejectReason = "chain_mismatch"

	// Zk identity proofs.
	ReasonMissingHolder  RejectReason = "missing_holder"
	ReasonNotZkCapable   RejectReason = "type_not_zk_capable"
	ReasonUnknownCircuit RejectReason = "unknown_circuit"
	ReasonIssuerMismatch RejectReason = "issuer_mismatch"
	ReasonEmptyNonce     RejectReason = "empty_nonce"
	ReasonNonceReused    RejectReason = "nonce_reused"
	ReasonNonceMismatch  RejectReason = "nonce_mismatch"
	ReasonUnknownKey     RejectReason = "unknown_issuer_key"
	ReasonMalformedKey   RejectReason = "malformed_issuer_key"
	ReasonMalformedProof RejectReason = "malformed_proof"
	ReasonProofRejected  RejectReason = "proof_rejected"

	// Tally.
	ReasonNotGuardian RejectReason = "not_a_guardian"
)
