package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type hmacVoterKeyer struct {
	secret []byte
}

// NewVoterKeyer derives voter keys as HMAC-SHA256(secret, electionID || citizenID).
// The key is stable per election and does not reveal the citizen without the secret.
func NewVoterKeyer(secret []byte) ports.VoterKeyer {
	return &hmacVoterKeyer{secret: secret}
}

func (k *hmacVoterKeyer) VoterKey(electionID, citizenID uuid.UUID) string {
	mac := hmac.New(sha256.New, k.secret)
	mac.Write(electionID[:])
	mac.Write(citizenID[:])
	return hex.EncodeToString(mac.Sum(nil))
}
