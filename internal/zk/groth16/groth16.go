// Package groth16 verifies Groth16 proofs over BN254 in the snarkjs JSON
// layout (decimal coordinates, affine points with a trailing z of 1).
package groth16

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Proof is a snarkjs proof.json.
type Proof struct {
	A        []string   `json:"pi_a" yaml:"pi_a"`
	B        [][]string `json:"pi_b" yaml:"pi_b"`
	C        []string   `json:"pi_c" yaml:"pi_c"`
	Protocol string     `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Curve    string     `json:"curve,omitempty" yaml:"curve,omitempty"`
}

// WellFormed checks shape only: three G1/G2/G1 coordinate lists.
func (p Proof) WellFormed() bool {
	if len(p.A) < 2 || len(p.C) < 2 || len(p.B) < 2 {
		return false
	}
	for _, c := range p.B {
		if len(c) != 2 {
			return false
		}
	}
	return true
}

// VerifyingKey is a snarkjs verification_key.json.
type VerifyingKey struct {
	Protocol string     `json:"protocol"`
	Curve    string     `json:"curve"`
	NPublic  int        `json:"nPublic"`
	Alpha    []string   `json:"vk_alpha_1"`
	Beta     [][]string `json:"vk_beta_2"`
	Gamma    [][]string `json:"vk_gamma_2"`
	Delta    [][]string `json:"vk_delta_2"`
	IC       [][]string `json:"IC"`
}

// PreparedKey is a verifying key with every point decoded and validated.
type PreparedKey struct {
	alpha bn254.G1Affine
	beta  bn254.G2Affine
	gamma bn254.G2Affine
	delta bn254.G2Affine
	ic    []bn254.G1Affine
}

// Prepare decodes and validates the key once so verification only does the
// pairing work.
func (vk VerifyingKey) Prepare() (*PreparedKey, error) {
	if vk.Protocol != "" && vk.Protocol != "groth16" {
		return nil, fmt.Errorf("unsupported protocol %q", vk.Protocol)
	}
	if vk.Curve != "" && vk.Curve != "bn128" && vk.Curve != "bn254" {
		return nil, fmt.Errorf("unsupported curve %q", vk.Curve)
	}
	if len(vk.IC) == 0 {
		return nil, fmt.Errorf("verifying key has no IC points")
	}
	if vk.NPublic != 0 && vk.NPublic+1 != len(vk.IC) {
		return nil, fmt.Errorf("nPublic %d does not match %d IC points", vk.NPublic, len(vk.IC))
	}

	pk := &PreparedKey{ic: make([]bn254.G1Affine, len(vk.IC))}
	var err error
	if pk.alpha, err = g1(vk.Alpha); err != nil {
		return nil, fmt.Errorf("vk_alpha_1: %w", err)
	}
	if pk.beta, err = g2(vk.Beta); err != nil {
		return nil, fmt.Errorf("vk_beta_2: %w", err)
	}
	if pk.gamma, err = g2(vk.Gamma); err != nil {
		return nil, fmt.Errorf("vk_gamma_2: %w", err)
	}
	if pk.delta, err = g2(vk.Delta); err != nil {
		return nil, fmt.Errorf("vk_delta_2: %w", err)
	}
	for i, p := range vk.IC {
		if pk.ic[i], err = g1(p); err != nil {
			return nil, fmt.Errorf("IC[%d]: %w", i, err)
		}
	}
	return pk, nil
}

// PublicInputs is the number of public inputs the key expects.
func (k *PreparedKey) PublicInputs() int {
	return len(k.ic) - 1
}

// Verify checks e(A,B) = e(alpha,beta) * e(vk_x,gamma) * e(C,delta), where
// vk_x = IC[0] + sum(input_i * IC[i+1]). Malformed proofs or inputs are
// reported as errors; a well-formed proof that fails the check returns false.
func (k *PreparedKey) Verify(proof Proof, inputs []string) (bool, error) {
	if len(inputs) != k.PublicInputs() {
		return false, fmt.Errorf("expected %d public inputs, got %d", k.PublicInputs(), len(inputs))
	}
	a, err := g1(proof.A)
	if err != nil {
		return false, fmt.Errorf("pi_a: %w", err)
	}
	b, err := g2(proof.B)
	if err != nil {
		return false, fmt.Errorf("pi_b: %w", err)
	}
	c, err := g1(proof.C)
	if err != nil {
		return false, fmt.Errorf("pi_c: %w", err)
	}

	var acc bn254.G1Jac
	acc.FromAffine(&k.ic[0])
	for i, in := range inputs {
		s, ok := new(big.Int).SetString(in, 10)
		if !ok || s.Sign() < 0 || s.Cmp(fr.Modulus()) >= 0 {
			return false, fmt.Errorf("public input %d is not a field element: %q", i, in)
		}
		var term bn254.G1Jac
		term.FromAffine(&k.ic[i+1])
		term.ScalarMultiplication(&term, s)
		acc.AddAssign(&term)
	}
	var vkX bn254.G1Affine
	vkX.FromJacobian(&acc)

	var negA bn254.G1Affine
	negA.Neg(&a)

	return bn254.PairingCheck(
		[]bn254.G1Affine{negA, k.alpha, vkX, c},
		[]bn254.G2Affine{b, k.beta, k.gamma, k.delta},
	)
}

func element(s string) (fp.Element, error) {
	var e fp.Element
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.Cmp(fp.Modulus()) >= 0 {
		return e, fmt.Errorf("coordinate is not a field element: %q", s)
	}
	e.SetBigInt(v)
	return e, nil
}

func g1(coords []string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if len(coords) != 2 && len(coords) != 3 {
		return p, fmt.Errorf("G1 point needs 2 or 3 coordinates, got %d", len(coords))
	}
	if len(coords) == 3 && coords[2] != "1" {
		return p, fmt.Errorf("G1 point is not normalized")
	}
	var err error
	if p.X, err = element(coords[0]); err != nil {
		return p, err
	}
	if p.Y, err = element(coords[1]); err != nil {
		return p, err
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("G1 point not on curve")
	}
	return p, nil
}

func g2(coords [][]string) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	if len(coords) != 2 && len(coords) != 3 {
		return p, fmt.Errorf("G2 point needs 2 or 3 coordinates, got %d", len(coords))
	}
	for _, c := range coords {
		if len(c) != 2 {
			return p, fmt.Errorf("G2 coordinate needs 2 limbs, got %d", len(c))
		}
	}
	if len(coords) == 3 && (coords[2][0] != "1" || coords[2][1] != "0") {
		return p, fmt.Errorf("G2 point is not normalized")
	}
	var err error
	if p.X.A0, err = element(coords[0][0]); err != nil {
		return p, err
	}
	if p.X.A1, err = element(coords[0][1]); err != nil {
		return p, err
	}
	if p.Y.A0, err = element(coords[1][0]); err != nil {
		return p, err
	}
	if p.Y.A1, err = element(coords[1][1]); err != nil {
		return p, err
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("G2 point not on curve or not in subgroup")
	}
	return p, nil
}
