package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bookstub/bms/internal/clock"
	"github.com/bookstub/bms/internal/domain"
)

// Holds are plain expiring keys: seat_hold:{show}:{seat} -> holding user id.
// Redis evicts them at expiry, and every script below re-checks liveness on
// read, so a hold past its TTL is indistinguishable from a released one. The
// per-show index set only serves listings and is pruned opportunistically.

// tryHoldScript checks every requested seat for a competing live hold before
// touching anything, so a conflict creates no partial holds. A hold owned by
// the requesting user is refreshed rather than rejected.
//
// KEYS[1] = per-show index set, KEYS[2..] = one hold key per seat
// ARGV[1] = user id, ARGV[2] = ttl seconds, ARGV[3..] = seat labels
var tryHoldScript = redis.NewScript(`
	local conflicts = {}

	for i = 2, #KEYS do
		local owner = redis.call("GET", KEYS[i])
		if owner and owner ~= ARGV[1] then
			table.insert(conflicts, ARGV[i + 1])
		end
	end

	if #conflicts > 0 then
		return conflicts
	end

	for i = 2, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
		redis.call("SADD", KEYS[1], ARGV[i + 1])
	end

	return {}
`)

// releaseHoldScript deletes only holds owned by the caller; holds that have
// already expired or belong to another user are left alone.
//
// KEYS[1] = per-show index set, KEYS[2..] = hold keys
// ARGV[1] = user id, ARGV[2..] = seat labels
var releaseHoldScript = redis.NewScript(`
	for i = 2, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", KEYS[1], ARGV[i])
		end
	end

	return "OK"
`)

// heldByOthersScript returns the requested seats that carry a live hold owned
// by a different user.
//
// KEYS = hold keys; ARGV[1] = user id, ARGV[2..] = seat labels
var heldByOthersScript = redis.NewScript(`
	local held = {}

	for i = 1, #KEYS do
		local owner = redis.call("GET", KEYS[i])
		if owner and owner ~= ARGV[1] then
			table.insert(held, ARGV[i + 1])
		end
	end

	return held
`)

// heldSeatsScript walks the per-show index set, drops entries whose hold key
// has expired and returns the seats still held. The pruning is hygiene only;
// expiry is already enforced by the key TTLs.
//
// KEYS[1] = per-show index set; ARGV[1] = show id
var heldSeatsScript = redis.NewScript(`
	local setKey = KEYS[1]
	local showId = ARGV[1]
	local cursor = "0"
	local expired = {}
	local valid = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", 100)
		cursor = result[1]

		for _, seat in ipairs(result[2]) do
			if redis.call("EXISTS", "seat_hold:" .. showId .. ":" .. seat) == 0 then
				table.insert(expired, seat)
			else
				table.insert(valid, seat)
			end
		end
	until cursor == "0"

	if #expired > 0 then
		redis.call("SREM", setKey, unpack(expired))
	end

	return valid
`)

type RedisHoldStore struct {
	client redis.UniversalClient
	clock  clock.Clock
}

func NewRedisHoldStore(client redis.UniversalClient, clk clock.Clock) *RedisHoldStore {
	return &RedisHoldStore{
		client: client,
		clock:  clk,
	}
}

func (s *RedisHoldStore) TryHold(
	ctx context.Context,
	showID uuid.UUID,
	seats []string,
	userID uuid.UUID,
	ttl time.Duration) (time.Time, error) {

	keys := make([]string, 0, len(seats)+1)
	keys = append(keys, holdSetKey(showID))
	for _, seat := range seats {
		keys = append(keys, holdKey(showID, seat))
	}

	args := make([]any, 0, len(seats)+2)
	args = append(args, userID.String(), int(ttl.Seconds()))
	for _, seat := range seats {
		args = append(args, seat)
	}

	conflicts, err := tryHoldScript.Run(ctx, s.client, keys, args...).StringSlice()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to acquire seat holds: %w", err)
	}

	if len(conflicts) > 0 {
		return time.Time{}, domain.SeatsUnavailableError{Seats: conflicts}
	}

	return s.clock.Now().Add(ttl), nil
}

func (s *RedisHoldStore) Release(ctx context.Context, showID uuid.UUID, seats []string, userID uuid.UUID) error {
	keys := make([]string, 0, len(seats)+1)
	keys = append(keys, holdSetKey(showID))
	for _, seat := range seats {
		keys = append(keys, holdKey(showID, seat))
	}

	args := make([]any, 0, len(seats)+1)
	args = append(args, userID.String())
	for _, seat := range seats {
		args = append(args, seat)
	}

	err := releaseHoldScript.Run(ctx, s.client, keys, args...).Err()
	if err != nil {
		return fmt.Errorf("failed to release seat holds: %w", err)
	}

	return nil
}

func (s *RedisHoldStore) HeldByOthers(
	ctx context.Context,
	showID uuid.UUID,
	seats []string,
	userID uuid.UUID) ([]string, error) {

	keys := make([]string, 0, len(seats))
	for _, seat := range seats {
		keys = append(keys, holdKey(showID, seat))
	}

	args := make([]any, 0, len(seats)+1)
	args = append(args, userID.String())
	for _, seat := range seats {
		args = append(args, seat)
	}

	held, err := heldByOthersScript.Run(ctx, s.client, keys, args...).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to check seat holds: %w", err)
	}

	return held, nil
}

func (s *RedisHoldStore) HeldSeats(ctx context.Context, showID uuid.UUID) ([]string, error) {
	held, err := heldSeatsScript.Run(ctx, s.client, []string{holdSetKey(showID)}, showID.String()).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to list held seats: %w", err)
	}

	return held, nil
}

func holdKey(showID uuid.UUID, seat string) string {
	return fmt.Sprintf("seat_hold:%s:%s", showID, seat)
}

func holdSetKey(showID uuid.UUID) string {
	return fmt.Sprintf("seat_holds:%s", showID)
}
