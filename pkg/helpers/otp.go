package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenOTPCode generates a uniformly random 6-digit OTP in 100000-999999
// and returns it as a fixed-width string. Codes are generated, stored,
// and compared as strings so a leading digit can never be silently
// dropped by an integer round-trip.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
