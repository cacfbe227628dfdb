package cli

import (
	"context"
	"crypto/sha256"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caguard/internal/guardian/document"
	"caguard/internal/guardian/handler"
	"caguard/internal/guardian/models"
	"caguard/internal/guardian/signature"
	"caguard/internal/platform/config"
	platformmetrics "caguard/internal/platform/metrics"
	"caguard/pkg/platform/middleware/requesttime"
	"caguard/pkg/testutil"
)

// TestServeWiring drives the router assembled by serve over the services
// assembled by build, using the in-memory backends.
func TestServeWiring(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seed := sha256.Sum256([]byte("wiring-verifier"))
	key := secp256k1.PrivKeyFromBytes(seed[:])
	serverID := models.HashOf([]byte("server-1"))
	retiredID := models.HashOf([]byte("server-0"))
	const chainID int64 = 9992731

	cfg := config.Default()
	cfg.Approval.ChainID = func() *int64 { id := chainID; return &id }()
	cfg.Verifiers = config.VerifiersConfig{
		Servers: []config.VerifierServerConfig{{
			ID:        serverID.String(),
			Name:      "primary",
			Addresses: []string{signature.AddressOf(key).String()},
		}},
		Aliases: map[string]string{retiredID.String(): serverID.String()},
	}
	cfg.ZK.Issuers = map[string]string{"google": "https://accounts.google.com"}
	require.NoError(t, cfg.Validate())

	reg := prometheus.NewRegistry()
	a, err := build(context.Background(), cfg, logger, reg)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	router := handler.NewRouter(handler.New(a.tally, logger), platformmetrics.New(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	blockTime := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	guardian := models.Guardian{IdentifierHash: models.HashOf([]byte("alice@example.com")), Type: models.GuardianTypeEmail, VerifierID: retiredID}
	// No X-Chain-Id header is sent: the configured chain id applies.
	chain := chainID
	doc := document.Format(guardian.Type, guardian.IdentifierHash, blockTime.Add(-time.Minute), signature.AddressOf(key), "salt", models.OperationAddGuardian, &chain)
	claim := models.GuardianClaim{
		IdentifierHash: guardian.IdentifierHash,
		Type:           guardian.Type,
		VerificationInfo: models.VerificationInfo{
			ID:                   retiredID,
			Signature:            signature.Sign(key, doc),
			VerificationDocument: doc,
		},
	}

	tallyOnce := func() *handler.TallyResponse {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/approvals/tally", map[string]any{
			"holder_id": "holder-1",
			"operation": "addGuardian",
			"guardians": []models.Guardian{guardian},
			"claims":    []models.GuardianClaim{claim},
		}, map[string]string{requesttime.HeaderBlockTime: strconv.FormatInt(blockTime.Unix(), 10)})
		return testutil.UnmarshalResponse[handler.TallyResponse](t, testutil.DoRequest(router, req), http.StatusOK)
	}

	first := tallyOnce()
	assert.Equal(t, 1, first.ApprovedCount)
	assert.True(t, first.Satisfied)

	replayed := tallyOnce()
	assert.Zero(t, replayed.ApprovedCount)
	assert.False(t, replayed.Satisfied)

	rec := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "caguard_tally_total")
	assert.Contains(t, rec.Body.String(), "caguard_http_requests_total")
}

func TestBuildRejectsMissingCircuitFile(t *testing.T) {
	cfg := config.Default()
	cfg.ZK.Circuits = map[string]string{"zklogin": "does-not-exist.json"}
	_, err := build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.Error(t, err)
}
