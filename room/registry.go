package room

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jsholden/wordbourne/player"
)

// codeAlphabet excludes visually ambiguous characters (I, O, 0, 1), per
// spec.md section 4.4.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	shortCodeLength   = 4
	longCodeLength    = 6
	codeGenRetries    = 1000
)

// IntnFunc returns a pseudo-random, non-negative int less than n. Tests
// substitute a seeded implementation for deterministic room codes; spec.md
// section 9 requires implementers make randomness injectable this way.
type IntnFunc func(n int) int

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Log receives lifecycle information. Required.
	Log *log.Logger
	// IntnFunc supplies randomness for room-code generation and for
	// server-generated player ids. Required.
	IntnFunc IntnFunc
	// TimeFunc supplies the current time; defaults to time.Now.
	TimeFunc func() time.Time
}

func (cfg RegistryConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("room: log required")
	case cfg.IntnFunc == nil:
		return fmt.Errorf("room: intn func required")
	}
	return nil
}

func (cfg RegistryConfig) now() time.Time {
	if cfg.TimeFunc != nil {
		return cfg.TimeFunc()
	}
	return time.Now()
}

// Registry owns the process-wide map of room code to Room: the shared
// resource spec.md section 5 requires be atomic with respect to inserts,
// deletes, and iteration.
type Registry struct {
	cfg RegistryConfig

	mu    sync.RWMutex
	rooms map[Code]*Room
}

// NewRegistry creates an empty Registry.
func (cfg RegistryConfig) NewRegistry() (*Registry, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Registry{cfg: cfg, rooms: make(map[Code]*Room)}, nil
}

// CreateRoom creates a new room hosted by a player with the given
// nickname and id (id is generated if empty). maxPlayers above MaxCapacity
// becomes MaxCapacity, and so does maxPlayers below MinCapacity (including
// an omitted 0); nickname is truncated to player.MaxNicknameLength, per
// spec.md section 4.4.
func (reg *Registry) CreateRoom(maxPlayers int, nickname string, id player.ID) (*Room, *player.Player, error) {
	maxPlayers = clampCapacity(maxPlayers)
	nickname = truncateNickname(nickname)
	if id == "" {
		id = reg.newPlayerID()
	}
	code, err := reg.generateCode()
	if err != nil {
		return nil, nil, err
	}
	host := player.New(id, nickname)
	now := reg.cfg.now()
	r := newRoom(code, maxPlayers, host, now)

	reg.mu.Lock()
	reg.rooms[code] = r
	reg.mu.Unlock()
	return r, host, nil
}

// JoinRoom adds a player to an existing room, or re-attaches them if id
// already belongs to a member, per spec.md section 4.4's re-attach rule.
func (reg *Registry) JoinRoom(code Code, nickname string, id player.ID) (*Room, *player.Player, error) {
	r, ok := reg.Get(code)
	if !ok {
		return nil, nil, roomErr(errRoomNotFound)
	}
	if id != "" && r.Member(id) {
		if p := r.findPlayer(id); p != nil {
			return r, p, nil
		}
	}
	nickname = truncateNickname(nickname)
	if id == "" {
		id = reg.newPlayerID()
	}
	p := player.New(id, nickname)
	now := reg.cfg.now()
	if err := r.Join(p, now); err != nil {
		return nil, nil, err
	}
	return r, p, nil
}

// Get returns the room for code, if any.
func (reg *Registry) Get(code Code) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// RemovePlayer removes id from code's room, deleting the room if it
// becomes empty and transferring host succession otherwise (handled by
// Room.Leave). Reports whether the room was deleted.
func (reg *Registry) RemovePlayer(code Code, id player.ID) (deleted bool, err error) {
	r, ok := reg.Get(code)
	if !ok {
		return false, roomErr(errRoomNotFound)
	}
	now := reg.cfg.now()
	if r.Leave(id, now) {
		reg.mu.Lock()
		delete(reg.rooms, code)
		reg.mu.Unlock()
		return true, nil
	}
	return false, nil
}

// Sweep deletes every room with no connected players that has been idle
// past threshold, per spec.md section 4.6. It snapshots the code list
// before iterating so concurrent mutation of the registry during the
// sweep is safe, per spec.md section 5.
func (reg *Registry) Sweep(threshold time.Duration) []Code {
	now := reg.cfg.now()
	reg.mu.RLock()
	codes := make([]Code, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	reg.mu.RUnlock()

	var removed []Code
	for _, code := range codes {
		r, ok := reg.Get(code)
		if !ok || !r.IsIdle(now, threshold) {
			continue
		}
		reg.mu.Lock()
		if r2, ok := reg.rooms[code]; ok && r2 == r {
			delete(reg.rooms, code)
			removed = append(removed, code)
		}
		reg.mu.Unlock()
	}
	return removed
}

// Codes returns a snapshot of every room code currently registered, for
// the turn-timeout tick to iterate over.
func (reg *Registry) Codes() []Code {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	codes := make([]Code, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	return codes
}

func (reg *Registry) generateCode() (Code, error) {
	if code, ok := reg.tryGenerateCode(shortCodeLength); ok {
		return code, nil
	}
	if code, ok := reg.tryGenerateCode(longCodeLength); ok {
		return code, nil
	}
	return "", roomErr(errRoomIDGenerationFailed)
}

func (reg *Registry) tryGenerateCode(length int) (Code, bool) {
	for i := 0; i < codeGenRetries; i++ {
		code := Code(reg.randomCode(length))
		reg.mu.RLock()
		_, taken := reg.rooms[code]
		reg.mu.RUnlock()
		if !taken {
			return code, true
		}
	}
	return "", false
}

func (reg *Registry) randomCode(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(codeAlphabet[reg.cfg.IntnFunc(len(codeAlphabet))])
	}
	return b.String()
}

// newPlayerID mints a server-generated player id when a client does not
// supply its own opaque identifier, per spec.md section 3.
func (reg *Registry) newPlayerID() player.ID {
	const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	var b strings.Builder
	for i := 0; i < 16; i++ {
		b.WriteByte(idAlphabet[reg.cfg.IntnFunc(len(idAlphabet))])
	}
	return player.ID(b.String())
}

func clampCapacity(n int) int {
	switch {
	case n < MinCapacity:
		return MaxCapacity
	case n > MaxCapacity:
		return MaxCapacity
	default:
		return n
	}
}

func truncateNickname(nickname string) string {
	if len(nickname) <= player.MaxNicknameLength {
		return nickname
	}
	return nickname[:player.MaxNicknameLength]
}
