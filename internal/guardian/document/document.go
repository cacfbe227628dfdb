// Package document parses verification documents: the comma-separated
// credential strings verifier servers sign when a guardian proves control of
// its identity.
//
//	type,identifierHash,verificationTime,verifierAddress,salt[,operationType[,chainId]]
package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"caguard/internal/guardian/models"
)

// Field counts of the three accepted layouts.
const (
	LegacyFields    = 5
	OperationFields = 6
	ChainFields     = 7
)

// ErrMalformed is wrapped by every parse failure.
var ErrMalformed = errors.New("malformed verification document")

// ErrLegacyDisabled is returned for 5-field documents when legacy documents
// are not accepted.
var ErrLegacyDisabled = errors.New("legacy verification documents are disabled")

// Layouts verifier servers have used for the verification time.
var timeLayouts = []string{
	"2006/1/2 15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Document is a parsed verification document.
type Document struct {
	Raw              string
	GuardianType     models.GuardianType
	IdentifierHash   models.Hash
	VerificationTime time.Time
	VerifierAddress  models.Address
	Salt             string
	OperationType    string
	ChainID          int64
	fields           int
}

// Fields is the number of comma-separated fields the document had.
func (d Document) Fields() int { return d.fields }

// Legacy reports whether the document carries no operation binding.
func (d Document) Legacy() bool { return d.fields == LegacyFields }

// HasOperation reports whether the document binds an operation type.
func (d Document) HasOperation() bool { return d.fields >= OperationFields }

// HasChainID reports whether the document binds a chain id.
func (d Document) HasChainID() bool { return d.fields == ChainFields }

// Split returns the raw fields when the count is acceptable. It does not look
// inside the fields.
func Split(raw string, allowLegacy bool) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	fields := strings.Split(raw, ",")
	switch len(fields) {
	case LegacyFields:
		if !allowLegacy {
			return nil, ErrLegacyDisabled
		}
	case OperationFields, ChainFields:
	default:
		return nil, fmt.Errorf("%w: %d fields", ErrMalformed, len(fields))
	}
	return fields, nil
}

// Parse splits and decodes raw.
func Parse(raw string, allowLegacy bool) (Document, error) {
	fields, err := Split(raw, allowLegacy)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Raw: raw, fields: len(fields)}
	if doc.GuardianType, err = models.ParseGuardianType(fields[0]); err != nil {
		return Document{}, fmt.Errorf("%w: guardian type: %v", ErrMalformed, err)
	}
	if doc.IdentifierHash, err = models.ParseHash(strings.TrimSpace(fields[1])); err != nil {
		return Document{}, fmt.Errorf("%w: identifier hash: %v", ErrMalformed, err)
	}
	if doc.VerificationTime, err = ParseTime(fields[2]); err != nil {
		return Document{}, fmt.Errorf("%w: verification time: %v", ErrMalformed, err)
	}
	if doc.VerifierAddress, err = models.ParseAddress(strings.TrimSpace(fields[3])); err != nil {
		return Document{}, fmt.Errorf("%w: verifier address: %v", ErrMalformed, err)
	}
	doc.Salt = strings.TrimSpace(fields[4])

	if doc.HasOperation() {
		doc.OperationType = strings.TrimSpace(fields[5])
	}
	if doc.HasChainID() {
		if doc.ChainID, err = strconv.ParseInt(strings.TrimSpace(fields[6]), 10, 64); err != nil {
			return Document{}, fmt.Errorf("%w: chain id: %v", ErrMalformed, err)
		}
	}
	return doc, nil
}

// ParseTime accepts the layouts verifier servers emit, plus unix seconds. All
// times without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Format renders a document in the 7-field layout (or 6 when chainID is nil).
// Verifier servers and tests use it to build documents to sign.
func Format(t models.GuardianType, identifier models.Hash, at time.Time, verifier models.Address, salt string, op models.OperationType, chainID *int64) string {
	parts := []string{
		strconv.Itoa(int(t)),
		identifier.String(),
		at.UTC().Format("2006/1/2 15:04:05"),
		verifier.String(),
		salt,
		strconv.Itoa(int(op)),
	}
	if chainID != nil {
		parts = append(parts, strconv.FormatInt(*chainID, 10))
	}
	return strings.Join(parts, ",")
}
