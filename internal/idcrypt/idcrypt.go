package idcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	apperrors "github.com/yungbote/labelvault-backend/internal/pkg/errors"
	"github.com/yungbote/labelvault-backend/internal/utils"
)

// Codec turns internal primary keys into opaque external identifiers and
// back. The transform is keyed, deterministic and reversible: a uuid is
// exactly one AES block, so a single block encryption gives a stable
// 32-char hex token per key. The core never sees external ids; they are
// produced and consumed only at the system boundary.
type Codec struct {
	block cipher.Block
}

func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("idcrypt: %w: empty secret", apperrors.ErrInvalidArgument)
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("idcrypt: init cipher: %w", err)
	}
	return &Codec{block: block}, nil
}

func FromEnv(log *logger.Logger) (*Codec, error) {
	secret := utils.GetEnv("EXTERNAL_ID_SECRET", "", log)
	if secret == "" {
		return nil, fmt.Errorf("idcrypt: EXTERNAL_ID_SECRET is not set")
	}
	return New(secret)
}

func (c *Codec) Encode(id uuid.UUID) string {
	var out [16]byte
	c.block.Encrypt(out[:], id[:])
	return hex.EncodeToString(out[:])
}

func (c *Codec) Decode(external string) (uuid.UUID, error) {
	raw, err := hex.DecodeString(external)
	if err != nil || len(raw) != 16 {
		return uuid.Nil, fmt.Errorf("idcrypt: %w: malformed external id", apperrors.ErrInvalidArgument)
	}
	var out [16]byte
	c.block.Decrypt(out[:], raw)
	return uuid.FromBytes(out[:])
}
