package models

import (
	"fmt"
	"strconv"
	"strings"
)

// GuardianType identifies the identity factor behind a guardian. Values match
// the numeric codes verifier servers embed in verification documents.
type GuardianType int32

const (
	GuardianTypeEmail    GuardianType = 0
	GuardianTypeGoogle   GuardianType = 1
	GuardianTypeApple    GuardianType = 2
	GuardianTypeTelegram GuardianType = 3
	GuardianTypeFacebook GuardianType = 4
	GuardianTypeTwitter  GuardianType = 5
)

var guardianTypeNames = map[GuardianType]string{
	GuardianTypeEmail:    "Email",
	GuardianTypeGoogle:   "Google",
	GuardianTypeApple:    "Apple",
	GuardianTypeTelegram: "Telegram",
	GuardianTypeFacebook: "Facebook",
	GuardianTypeTwitter:  "Twitter",
}

func (t GuardianType) String() string {
	if name, ok := guardianTypeNames[t]; ok {
		return name
	}
	return "GuardianType(" + strconv.Itoa(int(t)) + ")"
}

// IsValid reports whether t is a known guardian type.
func (t GuardianType) IsValid() bool {
	_, ok := guardianTypeNames[t]
	return ok
}

// IsZkCapable reports whether guardians of this type can approve with a zk
// proof of an OIDC identity.
func (t GuardianType) IsZkCapable() bool {
	switch t {
	case GuardianTypeGoogle, GuardianTypeApple, GuardianTypeFacebook:
		return true
	default:
		return false
	}
}

// ParseGuardianType accepts the numeric code or the name (any case).
func ParseGuardianType(s string) (GuardianType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		t := GuardianType(n)
		if !t.IsValid() {
			return 0, fmt.Errorf("unknown guardian type %d", n)
		}
		return t, nil
	}
	for t, name := range guardianTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown guardian type %q", s)
}

func (t GuardianType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown guardian type %d", int32(t))
	}
	return []byte(t.String()), nil
}

func (t *GuardianType) UnmarshalText(text []byte) error {
	parsed, err := ParseGuardianType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// OperationType is the guardian-gated action a verification document was
// issued for. Numeric values are what verifier servers embed.
type OperationType int32

const (
	OperationUnknown                 OperationType = 0
	OperationCreateCAHolder          OperationType = 1
	OperationSocialRecovery          OperationType = 2
	OperationAddGuardian             OperationType = 3
	OperationRemoveGuardian          OperationType = 4
	OperationUpdateGuardian          OperationType = 5
	OperationRemoveOtherManagerInfo  OperationType = 6
	OperationSetLoginAccount         OperationType = 7
	OperationApprove                 OperationType = 8
	OperationModifyTransferLimit     OperationType = 9
	OperationGuardianApproveTransfer OperationType = 10
	OperationUnsetLoginAccount       OperationType = 11
)

// Method names as the gated operations pass them to the tally.
var operationNames = map[OperationType]string{
	OperationCreateCAHolder:          "createCAHolder",
	OperationSocialRecovery:          "socialRecovery",
	OperationAddGuardian:             "addGuardian",
	OperationRemoveGuardian:          "removeGuardian",
	OperationUpdateGuardian:          "updateGuardian",
	OperationRemoveOtherManagerInfo:  "removeOtherManagerInfo",
	OperationSetLoginAccount:         "setLoginAccount",
	OperationApprove:                 "approve",
	OperationModifyTransferLimit:     "modifyTransferLimit",
	OperationGuardianApproveTransfer: "guardianApproveTransfer",
	OperationUnsetLoginAccount:       "unsetLoginAccount",
}

func (o OperationType) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}

// Matches reports whether o names the same operation as method, ignoring case.
func (o OperationType) Matches(method string) bool {
	name, ok := operationNames[o]
	return ok && strings.EqualFold(name, strings.TrimSpace(method))
}

// ParseOperationType accepts the numeric code or the method name (any case).
// Unknown is never returned without an error.
func ParseOperationType(s string) (OperationType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		o := OperationType(n)
		if _, ok := operationNames[o]; !ok {
			return OperationUnknown, fmt.Errorf("unknown operation type %d", n)
		}
		return o, nil
	}
	for o, name := range operationNames {
		if strings.EqualFold(name, s) {
			return o, nil
		}
	}
	return OperationUnknown, fmt.Errorf("unknown operation type %q", s)
}
