package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// generateKey creates a random 256-bit session signing key.
func generateKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Unable to generate key: %v", err)
	}
	return key
}

func main() {
	// Generate and display a session secret for COUNTDOWN_SESSION_SECRET.
	key := generateKey()
	fmt.Println("Generated Key (hex):", hex.EncodeToString(key))
}
