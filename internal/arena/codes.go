package arena

import (
	"crypto/rand"
	"strings"
)

const roomCodeLength = 6

// I, O, 0 and 1 are left out.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeGenerator produces candidate room codes. Collisions are handled by the store.
type CodeGenerator func() string

func newRoomCode() string {
	buf := make([]byte, roomCodeLength)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
	}
	return string(buf)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
