package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tns/internal/registry/models"
	id "tns/pkg/domain"
	dErrors "tns/pkg/domain-errors"
)

const (
	admin     = id.Identity("admin")
	alice     = id.Identity("alice")
	goodMint  = id.TokenRef("mint-good")
	otherMint = id.TokenRef("mint-other")
)

func verifiedReq(phase uint8) Request {
	return Request{
		Phase:  phase,
		Admin:  admin,
		Actor:  alice,
		Symbol: "ABC",
		Classification: models.Classification{
			Kind:        models.ClassVerified,
			VerifiedRef: goodMint,
		},
		Mint:          goodMint,
		MintAuthority: alice,
	}
}

func TestCheck_Unlisted(t *testing.T) {
	req := Request{
		Phase:          models.PhaseGenesis,
		Admin:          admin,
		Actor:          alice,
		Symbol:         "XYZ",
		Classification: models.Classification{Kind: models.ClassUnlisted},
	}

	t.Run("genesis is admin only", func(t *testing.T) {
		assert.True(t, dErrors.HasCode(Check(req), dErrors.CodeAdminOnlyPhase))

		asAdmin := req
		asAdmin.Actor = admin
		assert.NoError(t, Check(asAdmin))
	})

	t.Run("open phase allows anyone", func(t *testing.T) {
		open := req
		open.Phase = models.PhaseOpen
		assert.NoError(t, Check(open))
	})
}

func TestCheck_Reserved(t *testing.T) {
	req := Request{
		Phase:          models.PhaseOpen,
		Admin:          admin,
		Actor:          alice,
		Symbol:         "AAPL",
		Classification: models.Classification{Kind: models.ClassReserved},
	}

	assert.True(t, dErrors.HasCode(Check(req), dErrors.CodeSymbolReserved))

	asAdmin := req
	asAdmin.Actor = admin
	assert.NoError(t, Check(asAdmin))

	full := req
	full.Phase = models.PhaseFull
	assert.NoError(t, Check(full), "phase 3 drops all protection")
}

func TestCheck_Verified(t *testing.T) {
	for _, phase := range []uint8{models.PhaseGenesis, models.PhaseOpen} {
		t.Run("authority check holds in both gated phases", func(t *testing.T) {
			assert.NoError(t, Check(verifiedReq(phase)))
		})

		t.Run("wrong mint is a whitelist mismatch", func(t *testing.T) {
			req := verifiedReq(phase)
			req.Mint = otherMint
			assert.True(t, dErrors.HasCode(Check(req), dErrors.CodeVerifiedMismatch))
		})

		t.Run("wrong actor is an authority failure", func(t *testing.T) {
			req := verifiedReq(phase)
			req.Actor = id.Identity("mallory")
			assert.True(t, dErrors.HasCode(Check(req), dErrors.CodeNotMintAuthority))
		})

		t.Run("tokens without a mint authority cannot be verified-registered", func(t *testing.T) {
			req := verifiedReq(phase)
			req.Actor = ""
			req.MintAuthority = ""
			assert.True(t, dErrors.HasCode(Check(req), dErrors.CodeNotMintAuthority))
		})
	}

	t.Run("phase 3 skips the check entirely", func(t *testing.T) {
		req := verifiedReq(models.PhaseFull)
		req.Mint = otherMint
		req.Actor = id.Identity("mallory")
		assert.NoError(t, Check(req))
	})
}
