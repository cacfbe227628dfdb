// Package groth16test builds verifying keys and matching proofs from a known
// trapdoor. The verifier only checks the pairing equation, so choosing the
// toxic waste lets tests mint valid proofs for arbitrary public inputs
// without running a prover.
package groth16test

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"caguard/internal/zk/groth16"
)

// Circuit holds the trapdoor scalars behind a verifying key.
type Circuit struct {
	alpha, beta, gamma, delta *big.Int
	ic                        []*big.Int
	g1                        bn254.G1Affine
	g2                        bn254.G2Affine
	Key                       groth16.VerifyingKey
}

// New derives a deterministic circuit with nPublic inputs from seed.
func New(seed string, nPublic int) *Circuit {
	_, _, g1, g2 := bn254.Generators()
	c := &Circuit{
		alpha: scalar(seed, "alpha"),
		beta:  scalar(seed, "beta"),
		gamma: scalar(seed, "gamma"),
		delta: scalar(seed, "delta"),
		g1:    g1,
		g2:    g2,
	}
	for i := 0; i <= nPublic; i++ {
		c.ic = append(c.ic, scalar(seed, "ic", byte(i), byte(i>>8)))
	}

	c.Key = groth16.VerifyingKey{
		Protocol: "groth16",
		Curve:    "bn128",
		NPublic:  nPublic,
		Alpha:    c.g1Mul(c.alpha),
		Beta:     c.g2Mul(c.beta),
		Gamma:    c.g2Mul(c.gamma),
		Delta:    c.g2Mul(c.delta),
	}
	for _, s := range c.ic {
		c.Key.IC = append(c.Key.IC, c.g1Mul(s))
	}
	return c
}

// Prove returns a proof that verifies against c.Key for exactly inputs.
// Inputs must be decimal strings.
func (c *Circuit) Prove(inputs []string) groth16.Proof {
	r := fr.Modulus()
	v := new(big.Int).Set(c.ic[0])
	for i, in := range inputs {
		x, ok := new(big.Int).SetString(in, 10)
		if !ok {
			panic("groth16test: input is not decimal: " + in)
		}
		v.Add(v, new(big.Int).Mul(x, c.ic[i+1]))
	}
	v.Mod(v, r)

	a := scalar("proof", "a", v.Bytes()...)
	b := scalar("proof", "b", v.Bytes()...)

	// c = (a*b - alpha*beta - v*gamma) / delta
	num := new(big.Int).Mul(a, b)
	num.Sub(num, new(big.Int).Mul(c.alpha, c.beta))
	num.Sub(num, new(big.Int).Mul(v, c.gamma))
	num.Mod(num, r)
	cs := new(big.Int).Mul(num, new(big.Int).ModInverse(c.delta, r))
	cs.Mod(cs, r)

	return groth16.Proof{
		A:        c.g1Mul(a),
		B:        c.g2Mul(b),
		C:        c.g1Mul(cs),
		Protocol: "groth16",
		Curve:    "bn128",
	}
}

func (c *Circuit) g1Mul(s *big.Int) []string {
	var p bn254.G1Affine
	p.ScalarMultiplication(&c.g1, s)
	return []string{
		p.X.BigInt(new(big.Int)).String(),
		p.Y.BigInt(new(big.Int)).String(),
		"1",
	}
}

func (c *Circuit) g2Mul(s *big.Int) [][]string {
	var j bn254.G2Jac
	j.FromAffine(&c.g2)
	j.ScalarMultiplication(&j, s)
	var p bn254.G2Affine
	p.FromJacobian(&j)
	return [][]string{
		{p.X.A0.BigInt(new(big.Int)).String(), p.X.A1.BigInt(new(big.Int)).String()},
		{p.Y.A0.BigInt(new(big.Int)).String(), p.Y.A1.BigInt(new(big.Int)).String()},
		{"1", "0"},
	}
}

// scalar derives a non-zero field element from its labels.
func scalar(seed, label string, extra ...byte) *big.Int {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write([]byte{0})
	h.Write([]byte(label))
	h.Write(extra)
	s := new(big.Int).SetBytes(h.Sum(nil))
	s.Mod(s, fr.Modulus())
	if s.Sign() == 0 {
		s.SetInt64(1)
	}
	return s
}
