package nhlapi

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// playerInfo is the cached subset of the player landing payload.
type playerInfo struct {
	name    string
	catches string
}

// PlayerLookup resolves player names and catch hands, caching results for
// the lifetime of the process. Safe for concurrent use.
type PlayerLookup struct {
	client *Client

	mu    sync.Mutex
	cache map[int]playerInfo
}

// NewPlayerLookup returns a lookup backed by the given client.
func NewPlayerLookup(client *Client) *PlayerLookup {
	return &PlayerLookup{client: client, cache: make(map[int]playerInfo)}
}

type playerLanding struct {
	FirstName struct {
		Default string `json:"default"`
	} `json:"firstName"`
	LastName struct {
		Default string `json:"default"`
	} `json:"lastName"`
	ShootsCatches string `json:"shootsCatches"`
}

// Catches returns the player's display name and catch hand ("L" or "R").
func (l *PlayerLookup) Catches(playerID int) (string, string, error) {
	l.mu.Lock()
	if info, ok := l.cache[playerID]; ok {
		l.mu.Unlock()
		return info.name, info.catches, nil
	}
	l.mu.Unlock()

	var p playerLanding
	path := "/player/" + strconv.Itoa(playerID) + "/landing"
	if err := l.client.get(context.Background(), path, &p); err != nil {
		return "", "", fmt.Errorf("player %d: %w", playerID, err)
	}
	if p.ShootsCatches == "" {
		return "", "", &MissingFieldError{Field: "shootsCatches"}
	}
	info := playerInfo{
		name:    p.FirstName.Default + " " + p.LastName.Default,
		catches: p.ShootsCatches,
	}

	l.mu.Lock()
	l.cache[playerID] = info
	l.mu.Unlock()
	return info.name, info.catches, nil
}
