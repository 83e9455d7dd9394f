package session

import (
	"fmt"

	"portal/internal/utils"
)

// idEntropy is the number of random bytes behind every session id.
const idEntropy = 32

// GenerateID returns a new unguessable session id.
func GenerateID() (string, error) {
	id, err := utils.RandomString(idEntropy)
	if err != nil {
		return "", fmt.Errorf("session: id: %w", err)
	}
	return id, nil
}
