package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// URLSigner generates and validates HMAC signatures for content links.
type URLSigner struct {
	secret []byte
	now    func() time.Time
}

func NewURLSigner(secret []byte) *URLSigner {
	return &URLSigner{secret: secret, now: time.Now}
}

// Sign returns the hex signature for key and expiry.
func (s *URLSigner) Sign(key string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(fmt.Sprintf("%s:%d", key, expiresUnix)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate checks signature and that expires is still in the future.
func (s *URLSigner) Validate(key, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if s.now().Unix() >= exp {
		return false
	}
	return hmac.Equal([]byte(s.Sign(key, exp)), []byte(signature))
}
