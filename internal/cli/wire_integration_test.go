//go:build integration

package cli

import (
	"context"
	"crypto/sha256"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"caguard/internal/guardian/document"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/signature"
	"caguard/internal/guardian/tally"
	"caguard/internal/platform/config"
	"caguard/pkg/requestcontext"
	"caguard/pkg/testutil/containers"
)

// BackendWiringSuite builds the service graph against real replay backends
// and checks a signature cannot be replayed across calls.
type BackendWiringSuite struct {
	suite.Suite
	key      *secp256k1.PrivateKey
	serverID models.Hash
}

func TestBackendWiringSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(BackendWiringSuite))
}

func (s *BackendWiringSuite) SetupSuite() {
	seed := sha256.Sum256([]byte("backend-verifier"))
	s.key = secp256k1.PrivKeyFromBytes(seed[:])
	s.serverID = models.HashOf([]byte("server-1"))
}

func (s *BackendWiringSuite) config() config.Config {
	cfg := config.Default()
	cfg.Verifiers.Servers = []config.VerifierServerConfig{{
		ID:        s.serverID.String(),
		Addresses: []string{signature.AddressOf(s.key).String()},
	}}
	return cfg
}

func (s *BackendWiringSuite) assertReplayProtected(cfg config.Config) {
	s.Require().NoError(cfg.Validate())
	a, err := build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	s.Require().NoError(err)
	defer a.Close()

	blockTime := time.Now().UTC().Truncate(time.Second)
	ctx := requestcontext.WithTime(context.Background(), blockTime)
	g := models.Guardian{IdentifierHash: models.HashOf([]byte(s.T().Name())), Type: models.GuardianTypeEmail, VerifierID: s.serverID}
	doc := document.Format(g.Type, g.IdentifierHash, blockTime.Add(-time.Minute), signature.AddressOf(s.key), "salt", models.OperationAddGuardian, nil)
	req := tally.Request{
		HolderID:      "holder-1",
		OperationName: "addGuardian",
		Guardians:     []models.Guardian{g},
		Claims: []models.GuardianClaim{{
			IdentifierHash: g.IdentifierHash,
			Type:           g.Type,
			VerificationInfo: models.VerificationInfo{
				ID:                   s.serverID,
				Signature:            signature.Sign(s.key, doc),
				VerificationDocument: doc,
			},
		}},
	}

	first, err := a.tally.Tally(ctx, req)
	s.Require().NoError(err)
	s.Equal(1, first.ApprovedCount)

	again, err := a.tally.Tally(ctx, req)
	s.Require().NoError(err)
	s.Zero(again.ApprovedCount)
}

func (s *BackendWiringSuite) TestRedis() {
	redis := containers.GetManager().GetRedis(s.T())
	cfg := s.config()
	cfg.Approval.ReplayStore = config.ReplayStoreRedis
	cfg.Redis.URL = redis.URL
	s.assertReplayProtected(cfg)
}

func (s *BackendWiringSuite) TestPostgres() {
	pg := containers.GetManager().GetPostgres(s.T())
	cfg := s.config()
	cfg.Approval.ReplayStore = config.ReplayStorePostgres
	cfg.Postgres.DSN = pg.DSN
	s.assertReplayProtected(cfg)
}
