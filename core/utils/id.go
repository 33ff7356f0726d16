package utils

import (
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short random id for request ids, token ids and
// development message ids.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 16)
	if err != nil {
		return uuid.NewString()
	}
	return id
}

func ToUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// UniqueUUIDs drops duplicates and the given excluded ids, keeping first-seen order.
func UniqueUUIDs(ids []uuid.UUID, exclude ...uuid.UUID) []uuid.UUID {
	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		skip[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
