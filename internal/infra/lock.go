package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockBusy is returned when the lock is held by another resolution attempt.
var ErrLockBusy = errors.New("lock held by another process")

// unlockScript deletes the key only when the value still matches the holder,
// so an expired holder can never release a lock re-acquired by someone else.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// SalaLock serializes dispute resolution per sala. Acquisition is SET NX with
// a TTL so a crashed holder cannot deadlock the sala forever.
type SalaLock struct {
	rdb        *redis.Client
	key        string
	holder     string
	expiration time.Duration
}

// NewSalaLock builds a lock scoped to one sala. holder identifies the request
// that owns the lock (used to validate release).
func NewSalaLock(rdb *redis.Client, salaID, holder string) *SalaLock {
	return &SalaLock{
		rdb:        rdb,
		key:        fmt.Sprintf("lock:sala:%s", salaID),
		holder:     holder,
		expiration: 30 * time.Second,
	}
}

// Acquire takes the lock or returns ErrLockBusy without blocking.
func (l *SalaLock) Acquire(ctx context.Context) error {
	ok, err := l.rdb.SetNX(ctx, l.key, l.holder, l.expiration).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockBusy
	}
	return nil
}

// Release frees the lock if this holder still owns it.
func (l *SalaLock) Release(ctx context.Context) error {
	_, err := l.rdb.Eval(ctx, unlockScript, []string{l.key}, l.holder).Result()
	return err
}
